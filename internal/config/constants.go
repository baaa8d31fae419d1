package config

const (
	// DefaultStorePath is where harvested quotes are written when no
	// STORE_PATH is configured.
	DefaultStorePath = "./quotes.lua"

	// DefaultMaxDepth bounds directory recursion during a scan.
	DefaultMaxDepth = 5
)
