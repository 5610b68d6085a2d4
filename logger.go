package sos

import (
	"log/slog"
)

// discardLogger is used when Config.Logger is nil.
func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// logCalibration records a bandwidth search that hit the iteration cap.
func logCalibration(logger *slog.Logger, id int, c Calibration) {
	if c.Converged {
		return
	}
	logger.Debug("bandwidth search did not converge",
		"id", id,
		"beta", c.Beta,
		"perplexity", c.Perplexity,
		"iterations", c.Iterations,
	)
}

// logFallback records a row that had to be rebuilt because its affinities
// summed to zero.
func logFallback(logger *slog.Logger, stage string, id int, uniform bool) {
	logger.Debug("degenerate row",
		"stage", stage,
		"id", id,
		"uniform", uniform,
	)
}

// logSummary reports the per-run count of unconverged points.
func logSummary(logger *slog.Logger, n int, unconverged []int) {
	if len(unconverged) > 0 {
		logger.Warn("outlier detection completed with unconverged bandwidths",
			"points", n,
			"unconverged", len(unconverged),
		)
		return
	}
	logger.Debug("outlier detection completed", "points", n)
}
