package handshake

// State is a step of the client side of one exchange. Any failure moves the
// exchange to StateFailed, which is terminal.
type State int

const (
	StateInit State = iota
	StateHelloSent
	StateServerHelloReceived
	StateKeysDerived
	StateTicketDecrypted
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateInit:                "init",
	StateHelloSent:           "hello-sent",
	StateServerHelloReceived: "server-hello-received",
	StateKeysDerived:         "keys-derived",
	StateTicketDecrypted:     "ticket-decrypted",
	StateDone:                "done",
	StateFailed:              "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
