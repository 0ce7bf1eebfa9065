// Package transport carries a client hello to a wdals server in a single
// HTTP GET and hands back the raw response body.
package transport

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	utls "github.com/refraction-networking/utls"
	"github.com/simple-als/wdals/common"
	"github.com/simple-als/wdals/config"
	"github.com/simple-als/wdals/record"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/proxy"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	helloQuery = "hello"
	// maxBodyLen fits a server hello record and a ticket record.
	maxBodyLen = 2 * record.MaxRecordLen
)

type dialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

type Client struct {
	base       *url.URL
	path       string
	transport  *http.Transport
	httpClient *http.Client
}

// URL is the request URL carrying hello.
func (c *Client) URL(hello []byte) string {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + c.path
	u.RawQuery = helloQuery + "=" + base64.RawURLEncoding.EncodeToString(hello)
	return u.String()
}

func (c *Client) Exchange(ctx context.Context, hello []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(hello), nil)
	if err != nil {
		return nil, common.NewError("failed to build request").Base(common.ErrNetwork).Base(err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, common.NewError("failed to send client hello to " + c.base.Host).Base(common.ErrNetwork).Base(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyLen))
		return nil, common.NewError(fmt.Sprintf("unexpected status %d from %s", resp.StatusCode, c.base.Host)).Base(common.ErrNetwork)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyLen+1))
	if err != nil {
		return nil, common.NewError("failed to read response").Base(common.ErrNetwork).Base(err)
	}
	if len(body) > maxBodyLen {
		return nil, common.NewError(fmt.Sprintf("response exceeds %d bytes", maxBodyLen)).Base(common.ErrCorruptData)
	}
	log.Debugf("%s answered with %d bytes over %s", c.base.Host, len(body), resp.Proto)
	return body, nil
}

func (c *Client) Close() error {
	c.transport.CloseIdleConnections()
	return nil
}

// NewClient builds a client for host, falling back to the configured host
// when host is empty.
func NewClient(ctx context.Context, host string) (*Client, error) {
	cfg := config.FromContext(ctx, Name).(*Config)
	if host == "" {
		host = cfg.Transport.Host
	}
	base, err := url.Parse(host)
	if err != nil {
		return nil, common.NewError("invalid host " + host).Base(err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, common.NewError("host must be an http or https url: " + host)
	}
	timeout := time.Duration(cfg.Transport.Timeout) * time.Second

	dialer := &net.Dialer{Timeout: timeout}
	dial := dialFunc(dialer.DialContext)
	if cfg.Transport.Socks5 != "" {
		d, err := proxy.SOCKS5("tcp", cfg.Transport.Socks5, nil, dialer)
		if err != nil {
			return nil, common.NewError("invalid socks5 proxy").Base(err)
		}
		dial = d.(proxy.ContextDialer).DialContext
		log.Debug("dialing through socks5 proxy ", cfg.Transport.Socks5)
	}

	t := &http.Transport{
		DialContext:         dial,
		TLSHandshakeTimeout: timeout,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.Transport.InsecureSkipVerify,
		},
	}
	if cfg.Transport.Fingerprint != "" {
		id, err := helloID(cfg.Transport.Fingerprint)
		if err != nil {
			return nil, err
		}
		t.DialTLSContext = utlsDialer(dial, id, cfg.Transport.InsecureSkipVerify)
		if cfg.Transport.HTTP2 {
			log.Warn("http2 is not available with a tls fingerprint, using http/1.1")
		}
	} else if cfg.Transport.HTTP2 {
		if err := http2.ConfigureTransport(t); err != nil {
			return nil, common.NewError("failed to enable http2").Base(err)
		}
	}

	log.Debug("transport client created for ", base.Host)
	return &Client{
		base:      base,
		path:      cfg.Transport.Path,
		transport: t,
		httpClient: &http.Client{
			Transport: t,
			Timeout:   timeout,
		},
	}, nil
}

func helloID(name string) (utls.ClientHelloID, error) {
	switch strings.ToLower(name) {
	case "randomized":
		return utls.HelloRandomizedNoALPN, nil
	case "golang":
		return utls.HelloGolang, nil
	default:
		return utls.ClientHelloID{}, common.NewError("unknown tls fingerprint " + name)
	}
}

func utlsDialer(dial dialFunc, id utls.ClientHelloID, insecure bool) dialFunc {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := dial(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		serverName, _, err := net.SplitHostPort(addr)
		if err != nil {
			serverName = addr
		}
		tlsConn := utls.UClient(conn, &utls.Config{
			ServerName:         serverName,
			InsecureSkipVerify: insecure,
		}, id)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			conn.Close()
			return nil, common.NewError("tls handshake with " + addr + " failed").Base(err)
		}
		return tlsConn, nil
	}
}
