package config

import (
	"context"
	"encoding/json"
	"github.com/BurntSushi/toml"
	"github.com/simple-als/wdals/common"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"path/filepath"
	"strings"
	"sync"
)

// Creator returns a pointer to a config struct filled with defaults.
type Creator func() interface{}

type contextKey string

var (
	mu       sync.RWMutex
	creators = make(map[string]Creator)
)

// RegisterConfigCreator registers the default config of a component. Packages
// call it from init.
func RegisterConfigCreator(name string, creator Creator) {
	mu.Lock()
	defer mu.Unlock()
	creators[name] = creator
	log.Debugf("config creator %s registered", name)
}

func withConfig(ctx context.Context, data []byte, unmarshal func([]byte, interface{}) error) (context.Context, error) {
	mu.RLock()
	defer mu.RUnlock()
	for name, creator := range creators {
		cfg := creator()
		if len(data) > 0 {
			if err := unmarshal(data, cfg); err != nil {
				return ctx, common.NewError("failed to parse config of " + name).Base(err)
			}
		}
		ctx = context.WithValue(ctx, contextKey(name), cfg)
	}
	return ctx, nil
}

// WithJSONConfig parses data once per registered component and stores each
// result in the returned context.
func WithJSONConfig(ctx context.Context, data []byte) (context.Context, error) {
	return withConfig(ctx, data, json.Unmarshal)
}

func WithYAMLConfig(ctx context.Context, data []byte) (context.Context, error) {
	return withConfig(ctx, data, yaml.Unmarshal)
}

func WithTOMLConfig(ctx context.Context, data []byte) (context.Context, error) {
	return withConfig(ctx, data, toml.Unmarshal)
}

// WithFileConfig picks the decoder from the file extension of filename.
func WithFileConfig(ctx context.Context, filename string, data []byte) (context.Context, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return WithJSONConfig(ctx, data)
	case ".yaml", ".yml":
		return WithYAMLConfig(ctx, data)
	case ".toml":
		return WithTOMLConfig(ctx, data)
	default:
		return ctx, common.NewError("unsupported config format: " + filename)
	}
}

// WithDefaultConfig stores the defaults of every registered component.
func WithDefaultConfig(ctx context.Context) context.Context {
	ctx, err := withConfig(ctx, nil, nil)
	common.Must(err)
	return ctx
}

func WithConfig(ctx context.Context, name string, cfg interface{}) context.Context {
	return context.WithValue(ctx, contextKey(name), cfg)
}

// FromContext returns the config registered under name, or nil.
func FromContext(ctx context.Context, name string) interface{} {
	return ctx.Value(contextKey(name))
}
