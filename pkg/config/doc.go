// Package config loads typed configuration from environment variables.
//
// Structs declare their variables with caarlos0/env tags. Load parses a struct
// once per type and caches it for the lifetime of the process, so packages can
// call Load for the same type without re-reading the environment. A .env file
// in the working directory is loaded automatically when present.
package config
