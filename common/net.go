package common

import (
	"net"
)

// PickAddress returns host:port where port was free for TCP at the time of the
// call.
func PickAddress(host string) (string, error) {
	var lastErr error
	for retry := 0; retry < 16; retry++ {
		l, err := net.Listen("tcp", net.JoinHostPort(host, "0"))
		if err != nil {
			lastErr = err
			continue
		}
		addr := l.Addr().String()
		if err := l.Close(); err != nil {
			return "", err
		}
		return addr, nil
	}
	return "", NewError("no free port on " + host).Base(lastErr)
}
