// Package store keeps the session tickets handed out by wdals servers, keyed
// by server host, until they expire.
package store

import (
	"context"
	"errors"
	"github.com/simple-als/wdals/common"
	"github.com/simple-als/wdals/config"
	"github.com/simple-als/wdals/handshake"
	"strings"
)

var ErrNotFound = errors.New("no unexpired ticket")

type Store interface {
	Put(ctx context.Context, host string, result *handshake.Result) error
	// Get fails with ErrNotFound when host has no unexpired ticket.
	Get(ctx context.Context, host string) (*handshake.Result, error)
	Close() error
}

// NewStore opens the store selected by the STORE config section.
func NewStore(ctx context.Context) (Store, error) {
	cfg := config.FromContext(ctx, Name).(*Config)
	switch strings.ToLower(cfg.Store.Type) {
	case "", "memory":
		return NewMemoryStore(), nil
	case "mysql":
		return NewMySQLStore(ctx, &cfg.Store.MySQL)
	default:
		return nil, common.NewError("unknown store type " + cfg.Store.Type)
	}
}
