package common

import (
	"bytes"
	"errors"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net"
	"testing"
)

func TestEncodeBigEndian(t *testing.T) {
	assert.Equal(t, []byte{0x65, 0x53, 0xf1, 0x00}, EncodeU32BE(1700000000))
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00}, EncodeU32BE(0))
	assert.Equal(t, []byte{0xff, 0xff}, EncodeU16BE(65535))
	assert.Equal(t, []byte{0x01, 0x02}, EncodeU16BE(0x0102))

	v32, err := DecodeU32BE(EncodeU32BE(0xdeadbeef))
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdeadbeef), v32)
	v16, err := DecodeU16BE(EncodeU16BE(0xbeef))
	require.NoError(t, err)
	assert.Equal(t, uint16(0xbeef), v16)

	_, err = DecodeU32BE([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrCorruptData)
	_, err = DecodeU16BE([]byte{1})
	assert.ErrorIs(t, err, ErrCorruptData)
}

func TestHex(t *testing.T) {
	b := []byte{0x00, 0xab, 0xff, 0x10}
	s := BytesToHex(b)
	assert.Equal(t, "00abff10", s)

	out, err := HexToBytes(s)
	require.NoError(t, err)
	assert.Equal(t, b, out)

	out, err = HexToBytes("")
	require.NoError(t, err)
	assert.Empty(t, out)

	for _, bad := range []string{"abc", "zz", "0g"} {
		_, err := HexToBytes(bad)
		assert.ErrorIs(t, err, ErrFormat, bad)
	}
}

func TestErrorChain(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewError("failed to send hello").Base(ErrNetwork).Base(cause).Base(nil)
	assert.Equal(t, "failed to send hello | network error | connection refused", err.Error())
	assert.ErrorIs(t, err, ErrNetwork)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrCorruptData)

	outer := NewError("handshake failed").Base(err)
	assert.ErrorIs(t, outer, ErrNetwork)
	assert.Equal(t, "plain", NewError("plain").Error())
}

func TestRandomBytes(t *testing.T) {
	src := bytes.NewReader([]byte{1, 2, 3, 4, 5})
	p, err := RandomBytes(src, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, p)

	_, err = RandomBytes(src, 4)
	assert.Error(t, err)

	p1, err := RandomBytes(nil, 32)
	require.NoError(t, err)
	p2, err := RandomBytes(nil, 32)
	require.NoError(t, err)
	assert.Len(t, p1, 32)
	assert.NotEqual(t, p1, p2)
}

func TestPickAddress(t *testing.T) {
	addr, err := PickAddress("127.0.0.1")
	require.NoError(t, err)
	l, err := net.Listen("tcp", addr)
	require.NoError(t, err)
	l.Close()
}

func TestSetLogOutput(t *testing.T) {
	defer log.SetOutput(log.StandardLogger().Out)
	buf := new(bytes.Buffer)
	require.NoError(t, SetLogOutput("debug", buf))
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	log.Debug("visible")
	assert.Contains(t, buf.String(), `"msg":"visible"`)

	assert.Error(t, SetLogOutput("loud", buf))
	require.NoError(t, SetLogOutput("", buf))
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}
