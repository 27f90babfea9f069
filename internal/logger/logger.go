package logger

import (
	"go.uber.org/zap"

	"github.com/dferrante/anchorline/internal/config"
)

// New builds the process logger: human-readable in development, JSON in
// production.
func New(env string) (*zap.Logger, error) {
	if env == config.EnvProduction {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
