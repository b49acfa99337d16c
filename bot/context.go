package bot

import (
	"go.uber.org/zap"
)

// Bot context keeps references to common parameters of a bot: its
// configuration, logger and metrics.
type Context struct {
	Name    string
	Config  *Config
	Logger  *zap.SugaredLogger
	Metrics *Metrics
}

// NewContext creates new context. Make sure pointers are not nil.
func NewContext(name string, cfg *Config, logger *zap.SugaredLogger, metrics *Metrics) *Context {
	return &Context{
		Name:    name,
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
	}
}
