package common

import (
	"encoding/binary"
	"encoding/hex"
)

func EncodeU32BE(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func EncodeU16BE(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

func DecodeU32BE(b []byte) (uint32, error) {
	if len(b) < 4 {
		return 0, NewError("need 4 bytes for uint32").Base(ErrCorruptData)
	}
	return binary.BigEndian.Uint32(b), nil
}

func DecodeU16BE(b []byte) (uint16, error) {
	if len(b) < 2 {
		return 0, NewError("need 2 bytes for uint16").Base(ErrCorruptData)
	}
	return binary.BigEndian.Uint16(b), nil
}

// BytesToHex returns the lower-case hex text of b.
func BytesToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// HexToBytes decodes s, failing with ErrFormat on odd length or non-hex input.
func HexToBytes(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, NewError("failed to decode hex").Base(ErrFormat).Base(err)
	}
	return b, nil
}
