package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/simple-als/wdals/common"
	"github.com/simple-als/wdals/config"
	"github.com/simple-als/wdals/handshake"
	"github.com/simple-als/wdals/internal/wdalstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newServer(t *testing.T) (*wdalstest.Server, *httptest.Server) {
	s := wdalstest.NewServer()
	s.TicketExpire = uint32(time.Now().Add(time.Hour).Unix())
	hs := httptest.NewServer(s)
	t.Cleanup(hs.Close)
	return s, hs
}

func withHosts(hosts ...string) context.Context {
	ctx := config.WithDefaultConfig(context.Background())
	cfg := config.FromContext(ctx, Name).(*Config)
	cfg.Client.Hosts = hosts
	return ctx
}

func TestHandshakeGolden(t *testing.T) {
	s := wdalstest.NewServer()
	hs := httptest.NewServer(s)
	defer hs.Close()

	ctx := withHosts()
	c, err := NewClient(ctx,
		handshake.WithRand(wdalstest.FixedRand()),
		handshake.WithClock(func() time.Time { return time.Unix(1700000000, 0) }))
	require.NoError(t, err)
	defer c.Close()

	result, err := c.Handshake(ctx, hs.URL)
	require.NoError(t, err)
	want := &handshake.Result{
		TicketKey:     "oRtbflAdtvjnOiTxY7lN39kzHwRD347wKKZkdVjptEY=",
		TicketExpire:  1700003600,
		SessionTicket: "d2RhbHMtc2Vzc2lvbi10aWNrZXQtMDAwMQ==",
	}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestTicketReusesStore(t *testing.T) {
	s, hs := newServer(t)
	ctx := withHosts()
	c, err := NewClient(ctx)
	require.NoError(t, err)
	defer c.Close()

	first, err := c.Ticket(ctx, hs.URL)
	require.NoError(t, err)
	second, err := c.Ticket(ctx, hs.URL)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, s.Hellos())

	_, err = c.Handshake(ctx, hs.URL)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Hellos())
}

func TestHandshakeAll(t *testing.T) {
	s1, hs1 := newServer(t)
	s2, hs2 := newServer(t)
	s2.Ticket = []byte("second")
	s3, hs3 := newServer(t)
	s3.CipherSuite = handshake.SuitePSKAesGcm

	ctx := withHosts(hs1.URL, hs2.URL, hs3.URL, "not a url")
	c, err := NewClient(ctx)
	require.NoError(t, err)
	defer c.Close()

	outcomes := c.HandshakeAll(ctx)
	require.Len(t, outcomes, 4)

	want := []Outcome{
		{Host: hs1.URL, Result: &handshake.Result{TicketExpire: s1.TicketExpire, SessionTicket: "d2RhbHMtc2Vzc2lvbi10aWNrZXQtMDAwMQ=="}},
		{Host: hs2.URL, Result: &handshake.Result{TicketExpire: s2.TicketExpire, SessionTicket: "c2Vjb25k"}},
	}
	opts := cmp.Options{
		cmpopts.IgnoreFields(handshake.Result{}, "TicketKey"),
		cmpopts.IgnoreFields(Outcome{}, "Err"),
	}
	if diff := cmp.Diff(want, outcomes[:2], opts); diff != "" {
		t.Errorf("outcomes mismatch (-want +got):\n%s", diff)
	}
	assert.NotEqual(t, outcomes[0].Result.TicketKey, outcomes[1].Result.TicketKey)

	assert.Nil(t, outcomes[2].Result)
	assert.True(t, errors.Is(outcomes[2].Err, common.ErrUnsupportedCipher))
	assert.NotEmpty(t, outcomes[2].Error)
	assert.Nil(t, outcomes[3].Result)
	assert.Error(t, outcomes[3].Err)
}

func TestHandshakeServerError(t *testing.T) {
	s, hs := newServer(t)
	s.StatusCode = 503
	ctx := withHosts()
	c, err := NewClient(ctx)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Ticket(ctx, hs.URL)
	assert.True(t, errors.Is(err, common.ErrNetwork))
}

func TestRateLimit(t *testing.T) {
	_, hs := newServer(t)
	ctx := withHosts()
	cfg := config.FromContext(ctx, Name).(*Config)
	cfg.Client.Rate = 0.001
	c, err := NewClient(ctx)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Handshake(ctx, hs.URL)
	require.NoError(t, err)

	short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = c.Handshake(short, hs.URL)
	assert.True(t, errors.Is(err, common.ErrNetwork))
}

func TestConfigOption(t *testing.T) {
	_, hs := newServer(t)
	path := filepath.Join(t.TempDir(), "client.yaml")
	data := "client:\n  hosts:\n    - " + hs.URL + "\n  log-level: warn\ntransport:\n  timeout: 5\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	var out bytes.Buffer
	o := &configOption{path: &path, out: &out}
	require.NoError(t, o.Handle())

	var got Outcome
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, hs.URL, got.Host)
	require.NotNil(t, got.Result)
	assert.Equal(t, "d2RhbHMtc2Vzc2lvbi10aWNrZXQtMDAwMQ==", got.Result.SessionTicket)
	assert.Empty(t, got.Error)
}

func TestHostOption(t *testing.T) {
	_, hs := newServer(t)
	empty := ""
	assert.Error(t, (&hostOption{host: &empty}).Handle())

	var out bytes.Buffer
	host := hs.URL
	require.NoError(t, (&hostOption{host: &host, out: &out}).Handle())
	assert.Contains(t, out.String(), `"sessionTicket":"d2RhbHMtc2Vzc2lvbi10aWNrZXQtMDAwMQ=="`)
}
