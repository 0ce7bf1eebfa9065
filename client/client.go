// Package client runs wdals handshakes against one or more servers and keeps
// the resulting tickets in a store.
package client

import (
	"context"
	"github.com/simple-als/wdals/common"
	"github.com/simple-als/wdals/config"
	"github.com/simple-als/wdals/handshake"
	"github.com/simple-als/wdals/store"
	"github.com/simple-als/wdals/transport"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"sync"
)

// Outcome is the result of one host's handshake.
type Outcome struct {
	Host   string            `json:"host"`
	Result *handshake.Result `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
	Err    error             `json:"-"`
}

type Client struct {
	ctx     context.Context
	hosts   []string
	store   store.Store
	limiter *rate.Limiter
	opts    []handshake.Option

	sync.Mutex
	transports  map[string]*transport.Client
	handshakers map[string]*handshake.Client
}

func (c *Client) handshaker(host string) (*handshake.Client, error) {
	c.Lock()
	defer c.Unlock()
	if h, found := c.handshakers[host]; found {
		return h, nil
	}
	t, err := transport.NewClient(c.ctx, host)
	if err != nil {
		return nil, err
	}
	h := handshake.NewClient(t, c.opts...)
	c.transports[host] = t
	c.handshakers[host] = h
	return h, nil
}

// Handshake runs a fresh handshake with host and stores the ticket.
func (c *Client) Handshake(ctx context.Context, host string) (*handshake.Result, error) {
	h, err := c.handshaker(host)
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, common.NewError("handshake with " + host + " not started").Base(common.ErrNetwork).Base(err)
	}
	result, err := h.Handshake(ctx)
	if err != nil {
		return nil, common.NewError("handshake with " + host + " failed").Base(err)
	}
	log.WithField("host", host).Infof("session ticket expires at %v", result.ExpireTime())
	if err := c.store.Put(ctx, host, result); err != nil {
		log.Warn(err)
	}
	return result, nil
}

// Ticket returns the stored ticket of host, handshaking only when there is no
// unexpired one.
func (c *Client) Ticket(ctx context.Context, host string) (*handshake.Result, error) {
	result, err := c.store.Get(ctx, host)
	if err == nil {
		log.Debugf("reusing stored ticket of %s", host)
		return result, nil
	}
	if err != store.ErrNotFound {
		log.Warn(err)
	}
	return c.Handshake(ctx, host)
}

// HandshakeAll handshakes with every configured host concurrently. Outcomes
// follow the order of the configured hosts.
func (c *Client) HandshakeAll(ctx context.Context) []Outcome {
	outcomes := make([]Outcome, len(c.hosts))
	wg := sync.WaitGroup{}
	for i, host := range c.hosts {
		wg.Add(1)
		go func(i int, host string) {
			defer wg.Done()
			o := Outcome{Host: host}
			o.Result, o.Err = c.Handshake(ctx, host)
			if o.Err != nil {
				o.Error = o.Err.Error()
				log.Error(o.Err)
			}
			outcomes[i] = o
		}(i, host)
	}
	wg.Wait()
	return outcomes
}

func (c *Client) Close() error {
	c.Lock()
	defer c.Unlock()
	for _, t := range c.transports {
		t.Close()
	}
	return c.store.Close()
}

// NewClient reads the CLIENT, TRANSPORT and STORE sections of ctx. opts are
// passed to every handshake.
func NewClient(ctx context.Context, opts ...handshake.Option) (*Client, error) {
	cfg := config.FromContext(ctx, Name).(*Config)
	st, err := store.NewStore(ctx)
	if err != nil {
		return nil, err
	}
	limit := rate.Inf
	if cfg.Client.Rate > 0 {
		limit = rate.Limit(cfg.Client.Rate)
	}
	burst := cfg.Client.Burst
	if burst < 1 {
		burst = 1
	}
	log.Debugf("client created for %d hosts", len(cfg.Client.Hosts))
	return &Client{
		ctx:         ctx,
		hosts:       cfg.Client.Hosts,
		store:       st,
		limiter:     rate.NewLimiter(limit, burst),
		opts:        opts,
		transports:  make(map[string]*transport.Client),
		handshakers: make(map[string]*handshake.Client),
	}, nil
}
