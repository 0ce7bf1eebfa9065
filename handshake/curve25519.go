package handshake

import (
	"github.com/simple-als/wdals/common"
	"golang.org/x/crypto/curve25519"
	"io"
)

func generateKey(r io.Reader) (pri, pub [32]byte, err error) {
	seed, err := common.RandomBytes(r, 32)
	if err != nil {
		return
	}
	copy(pri[:], seed)
	zero(seed)

	pri[0] &= 248
	pri[31] &= 127
	pri[31] |= 64

	p, err := curve25519.X25519(pri[:], curve25519.Basepoint)
	if err != nil {
		return
	}
	copy(pub[:], p)
	return
}

// generateSharedSecret fails on a low-order peer key.
func generateSharedSecret(pri, pub []byte) ([]byte, error) {
	if len(pub) != EphKeyLen {
		return nil, common.NewError("peer key must be 32 bytes").Base(common.ErrCorruptData)
	}
	secret, err := curve25519.X25519(pri, pub)
	if err != nil {
		return nil, common.NewError("error in generating shared secret").Base(common.ErrCorruptData).Base(err)
	}
	return secret, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
