package config

const (
	// DefaultDataDir is the default directory for the catalog snapshot files.
	DefaultDataDir = "./data"

	// DefaultAdminPassword matches the historical default of the system
	// this replaces. It exists so a fresh checkout is usable immediately.
	DefaultAdminPassword = "1234"
)
