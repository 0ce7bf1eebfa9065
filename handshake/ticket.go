package handshake

import (
	"encoding/base64"
	"github.com/simple-als/wdals/common"
	"github.com/simple-als/wdals/record"
	"golang.org/x/crypto/nacl/box"
	"time"
)

// Result is what a successful handshake hands back to the caller.
type Result struct {
	TicketKey     string `json:"ticketKey"`
	TicketExpire  uint32 `json:"ticketExpire"`
	SessionTicket string `json:"sessionTicket"`
}

func newResult(ticketKey []byte, expire uint32, ticket []byte) *Result {
	return &Result{
		TicketKey:     base64.StdEncoding.EncodeToString(ticketKey),
		TicketExpire:  expire,
		SessionTicket: base64.StdEncoding.EncodeToString(ticket),
	}
}

func (r *Result) ExpireTime() time.Time {
	return time.Unix(int64(r.TicketExpire), 0)
}

func (r *Result) Expired(now time.Time) bool {
	return !now.Before(r.ExpireTime())
}

func openTicket(rec *record.Record, masterKey []byte, peerPub, pri *[32]byte) (expire uint32, ticket []byte, err error) {
	nonce, err := TicketNonce(masterKey, rec.Type(), rec.Version())
	if err != nil {
		return
	}
	plain, ok := box.Open(nil, rec.Payload(), nonce, peerPub, pri)
	if !ok {
		err = common.NewError("failed to open session ticket").Base(common.ErrAuthentication)
		return
	}
	expire, err = common.DecodeU32BE(plain)
	if err != nil {
		err = common.NewError("session ticket too short").Base(err)
		return
	}
	ticket = plain[4:]
	return
}
