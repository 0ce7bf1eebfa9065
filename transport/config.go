package transport

import "github.com/simple-als/wdals/config"

const Name = "TRANSPORT"

type TransportConfig struct {
	Host    string `json:"host" yaml:"host" toml:"host"`
	Path    string `json:"path" yaml:"path" toml:"path"`
	Timeout int    `json:"timeout" yaml:"timeout" toml:"timeout"`
	HTTP2   bool   `json:"http2" yaml:"http2" toml:"http2"`
	Socks5  string `json:"socks5" yaml:"socks5" toml:"socks5"`
	// Fingerprint selects a uTLS ClientHello: "randomized" or "golang".
	Fingerprint        string `json:"fingerprint" yaml:"fingerprint" toml:"fingerprint"`
	InsecureSkipVerify bool   `json:"insecureSkipVerify" yaml:"insecure-skip-verify" toml:"insecure-skip-verify"`
}

type Config struct {
	Transport TransportConfig `json:"transport" yaml:"transport" toml:"transport"`
}

func init() {
	config.RegisterConfigCreator(Name, func() interface{} {
		return &Config{
			Transport: TransportConfig{
				Path:    "/wdals",
				Timeout: 10,
			},
		}
	})
}
