package client

import "github.com/simple-als/wdals/config"

const Name = "CLIENT"

type ClientConfig struct {
	Hosts []string `json:"hosts" yaml:"hosts" toml:"hosts"`
	// Rate is the number of handshakes started per second, 0 for no limit.
	Rate     float64 `json:"rate" yaml:"rate" toml:"rate"`
	Burst    int     `json:"burst" yaml:"burst" toml:"burst"`
	LogLevel string  `json:"logLevel" yaml:"log-level" toml:"log-level"`
}

type Config struct {
	Client ClientConfig `json:"client" yaml:"client" toml:"client"`
}

func init() {
	config.RegisterConfigCreator(Name, func() interface{} {
		return &Config{
			Client: ClientConfig{
				Burst:    1,
				LogLevel: "info",
			},
		}
	})
}
