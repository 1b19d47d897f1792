package config

import "log"

// MustLoad is Load for main packages: any configuration error is fatal.
func MustLoad(files ...string) Config {
	cfg, err := Load(files...)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}
