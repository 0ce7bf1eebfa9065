package client

import (
	"context"
	"encoding/json"
	"flag"
	"github.com/simple-als/wdals/common"
	"github.com/simple-als/wdals/config"
	"github.com/simple-als/wdals/option"
	log "github.com/sirupsen/logrus"
	"io"
	"os"
)

func printOutcomes(w io.Writer, outcomes []Outcome) error {
	enc := json.NewEncoder(w)
	for _, o := range outcomes {
		if err := enc.Encode(o); err != nil {
			return err
		}
	}
	return nil
}

func run(ctx context.Context, w io.Writer, hosts []string) error {
	cfg := config.FromContext(ctx, Name).(*Config)
	if hosts != nil {
		cfg.Client.Hosts = hosts
	}
	if err := common.SetLogLevel(cfg.Client.LogLevel); err != nil {
		return err
	}
	c, err := NewClient(ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	return printOutcomes(w, c.HandshakeAll(ctx))
}

type configOption struct {
	path *string
	out  io.Writer
}

func (*configOption) Name() string {
	return "CLIENT"
}

func (*configOption) Priority() int {
	return 0
}

func (o *configOption) Handle() error {
	if *o.path == "" {
		return common.NewError("not set")
	}
	data, err := os.ReadFile(*o.path)
	if err != nil {
		log.Fatal(common.NewError("failed to read config file").Base(err))
	}
	ctx, err := config.WithFileConfig(context.Background(), *o.path, data)
	if err != nil {
		log.Fatal(err)
	}
	if err := run(ctx, o.out, nil); err != nil {
		log.Fatal(err)
	}
	return nil
}

type hostOption struct {
	host *string
	out  io.Writer
}

func (*hostOption) Name() string {
	return "HOST"
}

func (*hostOption) Priority() int {
	return 1
}

func (o *hostOption) Handle() error {
	if *o.host == "" {
		return common.NewError("not set")
	}
	ctx := config.WithDefaultConfig(context.Background())
	if err := run(ctx, o.out, []string{*o.host}); err != nil {
		log.Fatal(err)
	}
	return nil
}

func init() {
	option.RegisterHandler(&configOption{
		path: flag.String("config", "", "Handshake with every host of a json, yaml or toml config file"),
		out:  os.Stdout,
	})
	option.RegisterHandler(&hostOption{
		host: flag.String("host", "", "Handshake once with a server url, e.g. https://example.com"),
		out:  os.Stdout,
	})
}
