package handshake

type Type = uint8

const (
	TypeHelloRequest     Type = 0
	TypeClientHello      Type = 0b01
	TypeServerHello      Type = 0b10
	TypeNewSessionTicket Type = 0b100
)

// Cipher suites of the wdals registry. This client only offers and accepts
// SuiteDHEX25519XSalsa20Poly1305.
const (
	SuiteDHESecp256r1AesGcm        uint8 = 0xc9
	SuiteDHEX25519XSalsa20Poly1305 uint8 = 0xca
	SuitePSKAesGcm                 uint8 = 0xcb
	SuitePSKXSalsa20Poly1305       uint8 = 0xcc
)

const (
	NonceLen  = 32
	EphKeyLen = 32
	// MinMessageLen is type + nonce + timestamp + cipher suite + key length.
	MinMessageLen = 1 + NonceLen + 4 + 1 + 2
	MaxKeyLen     = 1<<16 - 1

	MasterKeyLen = 24
	TicketKeyLen = 32
	// BoxNonceLen is the XSalsa20-Poly1305 nonce size.
	BoxNonceLen = 24

	kdfIterations = 1
	masterKdf     = "master kdf"
	ticketKdf     = "ticket kdf"
)
