package server

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds a development logger for local and test runs and a JSON
// production logger everywhere else.
func NewLogger(env string) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	switch env {
	case "", EnvDevelopment, EnvTesting:
		l, err = zap.NewDevelopment()
	default:
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	return l.With(zap.String("env", env)), nil
}
