package common

import (
	"go.uber.org/zap"
)

// Mode selects how the process runs: a single monitoring pass driven by an
// external scheduler, or the long-running Telegram bot.
type Mode string

const (
	ModeCheck Mode = "check"
	ModeBot   Mode = "bot"
)

// ServiceOptions defines common options for the application constructor
type ServiceOptions struct {
	Logger *zap.Logger
	Env    string
	Mode   Mode
}

// Option defines a service option modifier
type Option func(*ServiceOptions)

func WithLogger(logger *zap.Logger) Option {
	return func(o *ServiceOptions) {
		o.Logger = logger
	}
}

func WithEnv(env string) Option {
	return func(o *ServiceOptions) {
		o.Env = env
	}
}

func WithMode(mode Mode) Option {
	return func(o *ServiceOptions) {
		o.Mode = mode
	}
}
