package logger

import (
	"cryptowatch/internal/app/port"

	"go.uber.org/zap"
)

// zapAdapter implements port.Logger on top of a sugared zap logger.
type zapAdapter struct {
	s *zap.SugaredLogger
}

// NewZapAdapter wraps zl so it can be handed to components expecting port.Logger.
func NewZapAdapter(zl *zap.Logger) port.Logger {
	return &zapAdapter{s: zl.Sugar()}
}

func (a *zapAdapter) Info(msg string, args ...any)  { a.s.Infow(msg, args...) }
func (a *zapAdapter) Debug(msg string, args ...any) { a.s.Debugw(msg, args...) }
func (a *zapAdapter) Warn(msg string, args ...any)  { a.s.Warnw(msg, args...) }
func (a *zapAdapter) Error(msg string, args ...any) { a.s.Errorw(msg, args...) }
