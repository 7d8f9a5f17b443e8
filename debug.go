package layerblend

import "log/slog"

// debugLog writes tick stats at debug level. Only called when the Animator
// was built WithDebug.
func (a *Animator) debugLog(stats TickStats) {
	if !a.debug {
		return
	}
	a.logger.Debug("layerblend tick",
		slog.Int("started", stats.Started),
		slog.Int("stopped", stats.Stopped),
		slog.Int("masked", stats.Masked),
		slog.Int("weighted", stats.Weighted),
		slog.Int("active", len(a.active)),
	)
	for _, p := range stats.Missing {
		a.logger.Debug("layerblend skipped request", slog.String("path", string(p)))
	}
}
