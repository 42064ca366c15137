package internal

import "github.com/ChuckBuilds/ledmatrix-of-the-day/internal/config"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *config.Config
	configPath string

	headless bool
	hz       int
	ticks    uint64
}

// WithConfig sets the application configuration.
func WithConfig(cfg *config.Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithConfigPath sets where configuration changes are persisted.
func WithConfigPath(path string) Option {
	return func(a *application) {
		a.configPath = path
	}
}

// WithHeadless runs without a window at the given tick rate; ticks limits
// the run when non-zero.
func WithHeadless(hz int, ticks uint64) Option {
	return func(a *application) {
		a.headless = true
		a.hz = hz
		a.ticks = ticks
	}
}
