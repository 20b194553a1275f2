package config

import (
	"os"

	"github.com/go-yaml/yaml"

	"github.com/defios/defios"
)

type Config struct {
	NodeInfo NodeInfo `yaml:"nodeInfo"`
	Server   Server   `yaml:"server"`
}

type NodeInfo struct {
	FQDN       string `yaml:"fqdn"`
	PrivateKey string `yaml:"privatekey"`
	QuoteMint  string `yaml:"quoteMint"`

	// ---
	NodeAddress string
	Authority   string
}

type Server struct {
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisDB       int    `yaml:"redisDB"`
	MemcachedAddr string `yaml:"memcachedAddr"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
	ListenAddr    string `yaml:"listenAddr"`
}

func Load(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	address, err := defios.PrivKeyToAddr(config.NodeInfo.PrivateKey)
	if err != nil {
		return Config{}, err
	}

	config.NodeInfo.NodeAddress = address
	config.NodeInfo.Authority = defios.AuthorityAddress()

	if config.Server.ListenAddr == "" {
		config.Server.ListenAddr = ":8000"
	}

	return config, nil
}
