package handshake

import (
	"crypto/sha256"
	"github.com/simple-als/wdals/common"
	"golang.org/x/crypto/pbkdf2"
)

// Keys is the material derived from one exchange.
type Keys struct {
	MasterKey []byte
	TicketKey []byte
}

// DeriveKeys stretches the Diffie-Hellman secret into the master key and the
// ticket key. Both are salted with their label followed by the transcript
// digest and are derived independently of each other.
func DeriveKeys(preSharedKey, transcript []byte) *Keys {
	return &Keys{
		MasterKey: kdf(preSharedKey, masterKdf, transcript, MasterKeyLen),
		TicketKey: kdf(preSharedKey, ticketKdf, transcript, TicketKeyLen),
	}
}

func kdf(secret []byte, label string, transcript []byte, n int) []byte {
	salt := make([]byte, 0, len(label)+len(transcript))
	salt = append(salt, label...)
	salt = append(salt, transcript...)
	return pbkdf2.Key(secret, salt, kdfIterations, n, sha256.New)
}

// TicketNonce builds the box nonce protecting the new session ticket record:
// the master key read back from its hex text, with byte 8 replaced by the
// record type and byte 9 by the record version.
func TicketNonce(masterKey []byte, typ, version uint8) (*[BoxNonceLen]byte, error) {
	raw, err := common.HexToBytes(common.BytesToHex(masterKey))
	if err != nil {
		return nil, err
	}
	if len(raw) != BoxNonceLen {
		return nil, common.NewError("master key does not fill a box nonce").Base(common.ErrCorruptData)
	}
	var nonce [BoxNonceLen]byte
	copy(nonce[:], raw)
	nonce[8] = typ
	nonce[9] = version
	return &nonce, nil
}
