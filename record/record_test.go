package record

import (
	"bytes"
	"errors"
	"github.com/simple-als/wdals/common"
	. "github.com/smartystreets/goconvey/convey"
	"testing"
)

func TestRecordRoundTrip(t *testing.T) {
	Convey("Given records of various payload sizes", t, func() {
		for _, size := range []int{0, 1, 40, 1024, MaxPayload} {
			payload := bytes.Repeat([]byte{0xa5}, size)
			r, err := New(TypeHandshake, payload)
			So(err, ShouldBeNil)

			data := r.Marshal()
			So(len(data), ShouldEqual, HeaderLen+size)

			parsed, n, err := Parse(data)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, HeaderLen+size)
			So(parsed.Type(), ShouldEqual, TypeHandshake)
			So(parsed.Version(), ShouldEqual, ProtocolXsalsa20Poly1305)
			So(bytes.Equal(parsed.Payload(), payload), ShouldBeTrue)
		}
	})

	Convey("The header is type, version and a big endian length", t, func() {
		r, err := New(TypeApplicationData, []byte("ping"))
		So(err, ShouldBeNil)
		So(r.Marshal(), ShouldResemble, []byte{0x14, 0x02, 0x00, 0x04, 'p', 'i', 'n', 'g'})
	})
}

func TestRecordTooLarge(t *testing.T) {
	Convey("A payload of 65536 bytes is rejected before encoding", t, func() {
		_, err := New(TypeHandshake, make([]byte, MaxPayload+1))
		So(errors.Is(err, common.ErrCorruptData), ShouldBeTrue)
	})
}

func TestParseTwoRecords(t *testing.T) {
	Convey("Given two records packed back to back", t, func() {
		first, _ := New(TypeHandshake, []byte("server hello"))
		second, _ := New(TypeHandshake, []byte("new session ticket"))
		buf := append(first.Marshal(), second.Marshal()...)

		r1, n, err := Parse(buf)
		So(err, ShouldBeNil)
		So(string(r1.Payload()), ShouldEqual, "server hello")

		r2, m, err := Parse(buf[n:])
		So(err, ShouldBeNil)
		So(string(r2.Payload()), ShouldEqual, "new session ticket")
		So(n+m, ShouldEqual, len(buf))
	})
}

func TestParseErrors(t *testing.T) {
	Convey("Parse rejects", t, func() {
		Convey("buffers shorter than a header", func() {
			for _, buf := range [][]byte{nil, {0x13}, {0x13, 0x02, 0x00}} {
				_, _, err := Parse(buf)
				So(errors.Is(err, common.ErrCorruptData), ShouldBeTrue)
			}
		})

		Convey("versions other than xsalsa20-poly1305", func() {
			for _, v := range []byte{ProtocolAesGcm, 0x00, 0x03, 0xff} {
				_, _, err := Parse([]byte{TypeHandshake, v, 0x00, 0x00})
				So(errors.Is(err, common.ErrUnsupportedProtocol), ShouldBeTrue)
			}
		})

		Convey("a length that runs past the buffer", func() {
			_, _, err := Parse([]byte{TypeHandshake, ProtocolXsalsa20Poly1305, 0x00, 0x05, 1, 2, 3})
			So(errors.Is(err, common.ErrCorruptData), ShouldBeTrue)
		})
	})
}
