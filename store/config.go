package store

import "github.com/simple-als/wdals/config"

const Name = "STORE"

type MySQLConfig struct {
	ServerHost string `json:"serverAddr" yaml:"server-addr" toml:"server-addr"`
	ServerPort int    `json:"serverPort" yaml:"server-port" toml:"server-port"`
	Database   string `json:"database" yaml:"database" toml:"database"`
	Username   string `json:"username" yaml:"username" toml:"username"`
	Password   string `json:"password" yaml:"password" toml:"password"`
	Table      string `json:"table" yaml:"table" toml:"table"`
}

type StoreConfig struct {
	// Type is "memory" or "mysql".
	Type  string      `json:"type" yaml:"type" toml:"type"`
	MySQL MySQLConfig `json:"mysql" yaml:"mysql" toml:"mysql"`
}

type Config struct {
	Store StoreConfig `json:"store" yaml:"store" toml:"store"`
}

func init() {
	config.RegisterConfigCreator(Name, func() interface{} {
		return &Config{
			Store: StoreConfig{
				Type: "memory",
				MySQL: MySQLConfig{
					ServerHost: "127.0.0.1",
					ServerPort: 3306,
					Table:      "wdals_tickets",
				},
			},
		}
	})
}
