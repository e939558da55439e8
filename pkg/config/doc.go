// Package config loads typed configuration structs from environment
// variables using `env` struct tags, with optional .env file support for
// local development.
//
// Each configuration type is parsed exactly once per process and cached, so
// components can load their own configuration independently without
// duplicating environment reads:
//
//	type JWTConfig struct {
//		SigningKey string        `env:"JWT_SIGNING_KEY,required"`
//		AccessTTL  time.Duration `env:"JWT_ACCESS_TTL" envDefault:"15m"`
//	}
//
//	var cfg JWTConfig
//	config.MustLoad(&cfg)
package config
