package domain

// Config is the node identity handed to services and handlers.
type Config struct {
	FQDN       string `yaml:"fqdn"`
	PrivateKey string `yaml:"privatekey"`
	QuoteMint  string `yaml:"quoteMint"`

	// Derived at load time.
	NodeAddress string
	Authority   string
}
