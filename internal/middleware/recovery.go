package middleware

import (
	"go.uber.org/zap"
)

// Recover logs a panic in a background goroutine instead of crashing the
// process. Use it as the first deferred call of the goroutine.
func Recover(logger *zap.Logger, component string) {
	if r := recover(); r != nil {
		logger.Error("panic recovered",
			zap.String("component", component),
			zap.Any("panic", r),
			zap.Stack("stack"),
		)
	}
}
