// Package record implements the outer framing of the wdals protocol.
//
// A record is laid out on the wire as
//
//	type(1) | version(1) | length(2, big endian) | payload(length)
//
// A server answers a client hello with two records packed back to back in one
// response body: the server hello, then the new session ticket. Parse reports
// how many bytes it consumed so the caller can locate the second record.
package record

import (
	"fmt"
	"github.com/simple-als/wdals/common"
)

type Type = uint8

const (
	TypeChangeCipherSpec Type = 0x11 + iota
	TypeAlert
	TypeHandshake
	TypeApplicationData
)

type Version = uint8

const (
	ProtocolAesGcm           Version = 0b01
	ProtocolXsalsa20Poly1305 Version = 0b10
)

const (
	HeaderLen  = 4
	MaxPayload = 1<<16 - 1
	// MaxRecordLen is the largest marshaled record.
	MaxRecordLen = HeaderLen + MaxPayload
)

// Record is immutable once built.
type Record struct {
	typ     Type
	version Version
	payload []byte
}

// New wraps payload in an XSalsa20-Poly1305 record, the only protection this
// client speaks.
func New(typ Type, payload []byte) (*Record, error) {
	if len(payload) > MaxPayload {
		return nil, common.NewError(fmt.Sprintf("record payload of %d bytes exceeds %d", len(payload), MaxPayload)).Base(common.ErrCorruptData)
	}
	return &Record{
		typ:     typ,
		version: ProtocolXsalsa20Poly1305,
		payload: payload,
	}, nil
}

func (r *Record) Type() Type {
	return r.typ
}

func (r *Record) Version() Version {
	return r.version
}

func (r *Record) Len() uint16 {
	return uint16(len(r.payload))
}

func (r *Record) Payload() []byte {
	return r.payload
}

func (r *Record) Marshal() []byte {
	buf := make([]byte, 0, HeaderLen+len(r.payload))
	buf = append(buf, r.typ, r.version)
	buf = append(buf, common.EncodeU16BE(r.Len())...)
	return append(buf, r.payload...)
}

func (r *Record) String() string {
	return fmt.Sprintf("record(type=%#x version=%#x length=%d)", r.typ, r.version, len(r.payload))
}

// Parse reads one record from the front of buf and returns it along with the
// number of bytes it occupied. The payload aliases buf.
func Parse(buf []byte) (*Record, int, error) {
	if len(buf) < HeaderLen {
		return nil, 0, common.NewError(fmt.Sprintf("record header needs %d bytes, got %d", HeaderLen, len(buf))).Base(common.ErrCorruptData)
	}
	version := buf[1]
	if version != ProtocolXsalsa20Poly1305 {
		return nil, 0, common.NewError(fmt.Sprintf("record version %#x", version)).Base(common.ErrUnsupportedProtocol)
	}
	length, err := common.DecodeU16BE(buf[2:HeaderLen])
	if err != nil {
		return nil, 0, err
	}
	end := HeaderLen + int(length)
	if len(buf) < end {
		return nil, 0, common.NewError(fmt.Sprintf("record declares %d payload bytes, %d available", length, len(buf)-HeaderLen)).Base(common.ErrCorruptData)
	}
	return &Record{
		typ:     buf[0],
		version: version,
		payload: buf[HeaderLen:end],
	}, end, nil
}
