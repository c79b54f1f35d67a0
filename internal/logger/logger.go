// Package logger builds the application logger.
package logger

import "go.uber.org/zap"

// New returns a zap logger tuned for env: production gets JSON output,
// anything else gets the development console encoder.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
