// Package handshake implements the client side of the wdals handshake.
//
// One call to Client.Handshake performs a single request/response exchange:
// the client sends an ephemeral X25519 public key in a client hello, the
// server answers with its own ephemeral key and a session ticket sealed with
// XSalsa20-Poly1305. Both sides bind the derived keys to the exchange with a
// SHA-256 transcript of the two hello payloads.
package handshake

import (
	"context"
	"crypto/sha256"
	"errors"
	"github.com/google/uuid"
	"github.com/simple-als/wdals/common"
	"github.com/simple-als/wdals/record"
	log "github.com/sirupsen/logrus"
	"hash"
	"io"
	"time"
)

// Transport carries the marshaled client hello record to the server and
// returns the raw response body.
type Transport interface {
	Exchange(ctx context.Context, hello []byte) ([]byte, error)
}

type TransportFunc func(ctx context.Context, hello []byte) ([]byte, error)

func (f TransportFunc) Exchange(ctx context.Context, hello []byte) ([]byte, error) {
	return f(ctx, hello)
}

// Client is safe for concurrent use; every Handshake owns its own key pair
// and transcript.
type Client struct {
	transport Transport
	rand      io.Reader
	now       func() time.Time
}

type Option func(*Client)

// WithRand replaces the source of the ephemeral private key (read first) and
// the hello nonce (read second).
func WithRand(r io.Reader) Option {
	return func(c *Client) {
		c.rand = r
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

func NewClient(transport Transport, opts ...Option) *Client {
	c := &Client{
		transport: transport,
		rand:      common.DefaultRand,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Handshake runs one exchange to completion. It returns either the full
// result or an error, never both.
func (c *Client) Handshake(ctx context.Context) (*Result, error) {
	hs := &clientHandshakeState{
		c:          c,
		transcript: sha256.New(),
		log:        log.WithField("handshake", uuid.NewString()),
	}
	defer hs.wipe()

	result, err := hs.handshake(ctx)
	if err != nil {
		hs.setState(StateFailed)
		hs.log.Debugf("handshake aborted: %v", err)
		return nil, err
	}
	return result, nil
}

type clientHandshakeState struct {
	c          *Client
	state      State
	log        *log.Entry
	transcript hash.Hash

	ephPri      [32]byte
	ephPub      [32]byte
	serverPub   [32]byte
	hello       *Message
	serverHello *Message
	keys        *Keys
	// rest holds the bytes that follow the server hello record.
	rest []byte

	ticketExpire uint32
	ticket       []byte
}

func (hs *clientHandshakeState) handshake(ctx context.Context) (*Result, error) {
	body, err := hs.sendClientHello(ctx)
	if err != nil {
		return nil, err
	}
	if err := hs.readServerHello(body); err != nil {
		return nil, err
	}
	if err := hs.deriveKeys(); err != nil {
		return nil, err
	}
	if err := hs.readSessionTicket(); err != nil {
		return nil, err
	}
	hs.setState(StateDone)
	return newResult(hs.keys.TicketKey, hs.ticketExpire, hs.ticket), nil
}

func (hs *clientHandshakeState) setState(s State) {
	hs.log.Debugf("handshake state %v -> %v", hs.state, s)
	hs.state = s
}

func (hs *clientHandshakeState) sendClientHello(ctx context.Context) ([]byte, error) {
	var err error
	hs.ephPri, hs.ephPub, err = generateKey(hs.c.rand)
	if err != nil {
		return nil, common.NewError("failed to generate ephemeral key pair").Base(err)
	}
	ts := uint32(hs.c.now().Unix())
	hs.hello, err = NewMessage(hs.c.rand, ts, SuiteDHEX25519XSalsa20Poly1305, hs.ephPub[:])
	if err != nil {
		return nil, common.NewError("failed to build client hello").Base(err)
	}
	payload, err := hs.hello.Marshal(TypeClientHello)
	if err != nil {
		return nil, err
	}
	rec, err := record.New(record.TypeHandshake, payload)
	if err != nil {
		return nil, err
	}
	// Only the payload enters the transcript, not the record header.
	hs.transcript.Write(rec.Payload())

	if err := ctx.Err(); err != nil {
		return nil, common.NewError("handshake cancelled").Base(common.ErrNetwork).Base(err)
	}
	hs.setState(StateHelloSent)
	body, err := hs.c.transport.Exchange(ctx, rec.Marshal())
	if err != nil {
		e := common.NewError("failed to send client hello")
		if !errors.Is(err, common.ErrNetwork) {
			e.Base(common.ErrNetwork)
		}
		return nil, e.Base(err)
	}
	return body, nil
}

func (hs *clientHandshakeState) readServerHello(body []byte) error {
	rec, n, err := record.Parse(body)
	if err != nil {
		return common.NewError("failed to read server hello record").Base(err)
	}
	if rec.Type() != record.TypeHandshake {
		return common.NewError("server hello is not a handshake record").Base(common.ErrCorruptData)
	}
	hs.transcript.Write(rec.Payload())
	hs.rest = body[n:]

	hs.serverHello, err = Unmarshal(rec.Payload(), TypeServerHello)
	if err != nil {
		return common.NewError("failed to read server hello").Base(err)
	}
	if hs.serverHello.CipherSuite != hs.hello.CipherSuite {
		return common.NewError("server chose a different cipher suite").Base(common.ErrUnsupportedCipher)
	}
	if len(hs.serverHello.CipherKey) != EphKeyLen {
		return common.NewError("server key must be 32 bytes").Base(common.ErrCorruptData)
	}
	copy(hs.serverPub[:], hs.serverHello.CipherKey)
	hs.setState(StateServerHelloReceived)
	return nil
}

func (hs *clientHandshakeState) deriveKeys() error {
	preSharedKey, err := generateSharedSecret(hs.ephPri[:], hs.serverPub[:])
	if err != nil {
		return err
	}
	defer zero(preSharedKey)
	hs.keys = DeriveKeys(preSharedKey, hs.transcript.Sum(nil))
	hs.setState(StateKeysDerived)
	return nil
}

func (hs *clientHandshakeState) readSessionTicket() error {
	rec, n, err := record.Parse(hs.rest)
	if err != nil {
		return common.NewError("failed to read new session ticket record").Base(err)
	}
	if extra := len(hs.rest) - n; extra > 0 {
		hs.log.Debugf("ignoring %d bytes after the session ticket record", extra)
	}
	hs.ticketExpire, hs.ticket, err = openTicket(rec, hs.keys.MasterKey, &hs.serverPub, &hs.ephPri)
	if err != nil {
		return err
	}
	hs.setState(StateTicketDecrypted)
	hs.log.Debugf("session ticket of %d bytes expires at %d", len(hs.ticket), hs.ticketExpire)
	return nil
}

func (hs *clientHandshakeState) wipe() {
	zero(hs.ephPri[:])
	if hs.keys != nil {
		zero(hs.keys.MasterKey)
	}
}
