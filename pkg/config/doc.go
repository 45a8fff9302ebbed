// Package config loads environment-backed configuration structs for the
// notifier service.
//
// Every package that needs tunables declares its own Config struct with
// `env` field tags and this package populates it from the process
// environment (optionally seeded from a .env file). Each distinct struct
// type is parsed exactly once per process; later calls receive the cached
// value, so components can load their config independently without
// re-reading the environment.
//
// # Usage
//
//	type BrokerConfig struct {
//		Group string `env:"BROKER_GROUP" envDefault:"notifier"`
//	}
//
//	var cfg BrokerConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
//
// MustLoad panics on failure and is intended for process start-up where a
// missing required variable should prevent the service from booting.
package config
