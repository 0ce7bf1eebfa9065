// Package wdalstest provides an in-process wdals server for tests.
package wdalstest

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"github.com/simple-als/wdals/common"
	"github.com/simple-als/wdals/handshake"
	"github.com/simple-als/wdals/record"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"
	"net/http"
	"sync"
)

const (
	Path       = "/wdals"
	HelloQuery = "hello"
)

// Server answers client hellos the way a wdals server does. Its key pair,
// nonce and timestamp are fixed so the whole exchange is reproducible.
type Server struct {
	PrivateKey   [32]byte
	Nonce        [handshake.NonceLen]byte
	Timestamp    uint32
	CipherSuite  uint8
	Ticket       []byte
	TicketExpire uint32

	// StatusCode, when set, replaces the 200 of ServeHTTP with an empty body.
	StatusCode int
	// Tamper flips one byte of the server hello payload after it has been
	// hashed into the server transcript.
	TamperServerHello bool
	// TamperTicket flips one byte of the sealed ticket.
	TamperTicket bool
	// TicketRecordType overrides the header type of the ticket record. The
	// ticket is still sealed for a handshake record.
	TicketRecordType record.Type
	// Plaintext, when set, is sealed in place of expire and ticket.
	Plaintext []byte
	// CipherKey, when set, is sent in the server hello in place of the
	// public key.
	CipherKey []byte
	// Trailer is appended after the ticket record.
	Trailer []byte

	mu        sync.Mutex
	masterKey []byte
	lastHello []byte
	hellos    int
}

// NewServer returns a server with deterministic keys and nonce.
func NewServer() *Server {
	s := &Server{
		Timestamp:    1700000001,
		CipherSuite:  handshake.SuiteDHEX25519XSalsa20Poly1305,
		Ticket:       []byte("wdals-session-ticket-0001"),
		TicketExpire: 1700003600,
	}
	for i := range s.PrivateKey {
		s.PrivateKey[i] = byte(0x81 + i)
	}
	for i := range s.Nonce {
		s.Nonce[i] = byte(0x41 + i)
	}
	return s
}

func (s *Server) PublicKey() []byte {
	pub, err := curve25519.X25519(s.PrivateKey[:], curve25519.Basepoint)
	common.Must(err)
	return pub
}

// MasterKey is the master key of the last completed exchange.
func (s *Server) MasterKey() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte{}, s.masterKey...)
}

// LastHello is the last client hello record received.
func (s *Server) LastHello() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte{}, s.lastHello...)
}

func (s *Server) Hellos() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hellos
}

// Respond builds the response body for one client hello record.
func (s *Server) Respond(hello []byte) ([]byte, error) {
	s.mu.Lock()
	s.lastHello = append([]byte{}, hello...)
	s.hellos++
	s.mu.Unlock()

	rec, _, err := record.Parse(hello)
	if err != nil {
		return nil, err
	}
	clientHello, err := handshake.Unmarshal(rec.Payload(), handshake.TypeClientHello)
	if err != nil {
		return nil, err
	}

	transcript := sha256.New()
	transcript.Write(rec.Payload())

	pub := s.PublicKey()
	serverHello := &handshake.Message{
		Nonce:       s.Nonce,
		Timestamp:   s.Timestamp,
		CipherSuite: s.CipherSuite,
		CipherKey:   pub,
	}
	if s.CipherKey != nil {
		serverHello.CipherKey = s.CipherKey
	}
	payload, err := serverHello.Marshal(handshake.TypeServerHello)
	if err != nil {
		return nil, err
	}
	transcript.Write(payload)
	if s.TamperServerHello {
		payload[1] ^= 0xff
	}
	helloRec, err := record.New(record.TypeHandshake, payload)
	if err != nil {
		return nil, err
	}

	secret, err := curve25519.X25519(s.PrivateKey[:], clientHello.CipherKey)
	if err != nil {
		return nil, common.NewError("bad client key").Base(common.ErrCorruptData).Base(err)
	}
	keys := handshake.DeriveKeys(secret, transcript.Sum(nil))
	s.mu.Lock()
	s.masterKey = keys.MasterKey
	s.mu.Unlock()

	nonce, err := handshake.TicketNonce(keys.MasterKey, record.TypeHandshake, record.ProtocolXsalsa20Poly1305)
	if err != nil {
		return nil, err
	}
	var peer, pri [32]byte
	copy(peer[:], clientHello.CipherKey)
	copy(pri[:], s.PrivateKey[:])
	plain := append(common.EncodeU32BE(s.TicketExpire), s.Ticket...)
	if s.Plaintext != nil {
		plain = s.Plaintext
	}
	sealed := box.Seal(nil, plain, nonce, &peer, &pri)
	if s.TamperTicket {
		sealed[len(sealed)-1] ^= 0xff
	}
	typ := s.TicketRecordType
	if typ == 0 {
		typ = record.TypeHandshake
	}
	ticketRec, err := record.New(typ, sealed)
	if err != nil {
		return nil, err
	}

	body := append(helloRec.Marshal(), ticketRec.Marshal()...)
	return append(body, s.Trailer...), nil
}

// Exchange lets the server stand in for a transport.
func (s *Server) Exchange(ctx context.Context, hello []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.NewError("exchange cancelled").Base(common.ErrNetwork).Base(err)
	}
	return s.Respond(hello)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != Path {
		http.NotFound(w, r)
		return
	}
	if s.StatusCode != 0 && s.StatusCode != http.StatusOK {
		w.WriteHeader(s.StatusCode)
		return
	}
	hello, err := base64.RawURLEncoding.DecodeString(r.URL.Query().Get(HelloQuery))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	body, err := s.Respond(hello)
	if err != nil {
		log.Debug(common.NewError("wdalstest rejected hello").Base(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(body)
}

// FixedRand returns the reader the golden exchange uses on the client side:
// the private key seed 0x01..0x20 followed by the nonce 0x21..0x40.
func FixedRand() *FixedReader {
	b := make([]byte, 64)
	for i := range b {
		b[i] = byte(0x01 + i)
	}
	return &FixedReader{data: b}
}

// FixedReader replays its bytes once and fails afterwards.
type FixedReader struct {
	data []byte
}

func (f *FixedReader) Read(p []byte) (int, error) {
	if len(f.data) == 0 {
		return 0, errExhausted
	}
	n := copy(p, f.data)
	f.data = f.data[n:]
	return n, nil
}

var errExhausted = common.NewError("fixed random source exhausted")
