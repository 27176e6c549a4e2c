package logger

import "go.uber.org/zap"

// New builds the process-wide zap logger. Development mode keeps the
// human-readable console encoder.
func New(ginMode string) (*zap.Logger, error) {
	if ginMode == "release" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
