package handshake

import (
	"fmt"
	"github.com/simple-als/wdals/common"
	"golang.org/x/crypto/cryptobyte"
	"io"
)

// Message is the body of a client hello or server hello:
//
//	type(1) | nonce(32) | ts(4) | cipherSuite(1) | keyLen(2) | cipherKey(keyLen)
type Message struct {
	Nonce       [NonceLen]byte
	Timestamp   uint32
	CipherSuite uint8
	CipherKey   []byte
}

// NewMessage fills the nonce from r.
func NewMessage(r io.Reader, ts uint32, cipherSuite uint8, cipherKey []byte) (*Message, error) {
	nonce, err := common.RandomBytes(r, NonceLen)
	if err != nil {
		return nil, err
	}
	m := &Message{
		Timestamp:   ts,
		CipherSuite: cipherSuite,
		CipherKey:   cipherKey,
	}
	copy(m.Nonce[:], nonce)
	return m, nil
}

func (m *Message) Marshal(typ Type) ([]byte, error) {
	if len(m.CipherKey) > MaxKeyLen {
		return nil, common.NewError(fmt.Sprintf("cipher key of %d bytes exceeds %d", len(m.CipherKey), MaxKeyLen)).Base(common.ErrCorruptData)
	}
	b := cryptobyte.NewBuilder(make([]byte, 0, MinMessageLen+len(m.CipherKey)))
	b.AddUint8(typ)
	b.AddBytes(m.Nonce[:])
	b.AddUint32(m.Timestamp)
	b.AddUint8(m.CipherSuite)
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(m.CipherKey)
	})
	data, err := b.Bytes()
	if err != nil {
		return nil, common.NewError("failed to marshal handshake message").Base(common.ErrCorruptData).Base(err)
	}
	return data, nil
}

// Unmarshal decodes data as a message of type typ. A mistyped message is
// corrupt: the protocol has no way to recover from it.
func Unmarshal(data []byte, typ Type) (*Message, error) {
	if len(data) < MinMessageLen {
		return nil, common.NewError(fmt.Sprintf("handshake message needs %d bytes, got %d", MinMessageLen, len(data))).Base(common.ErrCorruptData)
	}
	if data[0] != typ {
		return nil, common.NewError(fmt.Sprintf("handshake type %#x, want %#x", data[0], typ)).Base(common.ErrCorruptData)
	}
	m := &Message{}
	var key cryptobyte.String
	s := cryptobyte.String(data[1:])
	if !s.CopyBytes(m.Nonce[:]) ||
		!s.ReadUint32(&m.Timestamp) ||
		!s.ReadUint8(&m.CipherSuite) ||
		!s.ReadUint16LengthPrefixed(&key) {
		return nil, common.NewError("cipher key length runs past the message").Base(common.ErrCorruptData)
	}
	if !s.Empty() {
		return nil, common.NewError(fmt.Sprintf("%d trailing bytes after handshake message", len(s))).Base(common.ErrCorruptData)
	}
	m.CipherKey = append([]byte{}, key...)
	return m, nil
}
