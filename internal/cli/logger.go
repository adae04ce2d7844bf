package cli

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// newLogger returns a JSON production logger, or a console development
// logger when verbose is set. Every entry carries the run ID.
func newLogger(verbose bool) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("run_id", uuid.NewString())), nil
}
