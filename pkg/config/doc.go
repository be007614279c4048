// Package config loads typed configuration structs from environment
// variables, with optional .env support for local development.
//
// Every package that needs configuration declares its own Config struct
// with `env` tags and calls config.Load (or config.MustLoad at startup).
// Parsed configs are cached per type for the lifetime of the process.
package config
