package config

// Version is the tradelens binary version.
// Set at build time via: -ldflags "-X github.com/tradelens/tradelens/internal/config.Version=<tag>"
var Version = "dev"
