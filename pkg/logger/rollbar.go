package logger

import (
	"errors"

	"github.com/rollbar/rollbar-go"
	"go.uber.org/zap/zapcore"
)

// RollbarCore is a zapcore.Core forwarding entries at or above a level to Rollbar.
type RollbarCore struct {
	zapcore.LevelEnabler
	fields []zapcore.Field
}

// NewRollbarCore configures the global Rollbar notifier and returns a core feeding it.
func NewRollbarCore(token, env, codeVersion string, level zapcore.LevelEnabler) *RollbarCore {
	rollbar.SetToken(token)
	rollbar.SetEnvironment(env)
	rollbar.SetCodeVersion(codeVersion)
	rollbar.SetEnabled(token != "")
	return &RollbarCore{LevelEnabler: level}
}

// With implements zapcore.Core.
func (c *RollbarCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &RollbarCore{LevelEnabler: c.LevelEnabler, fields: merged}
}

// Check implements zapcore.Core.
func (c *RollbarCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

// Write implements zapcore.Core.
func (c *RollbarCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	var cause error
	for _, f := range append(c.fields, fields...) {
		if f.Type == zapcore.ErrorType && cause == nil {
			if err, ok := f.Interface.(error); ok {
				cause = err
			}
		}
		f.AddTo(enc)
	}
	if cause == nil {
		cause = errors.New(entry.Message)
	}

	extras := enc.Fields
	extras["message"] = entry.Message
	if entry.Caller.Defined {
		extras["caller"] = entry.Caller.TrimmedPath()
	}

	switch entry.Level {
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		rollbar.Critical(cause, extras)
	case zapcore.ErrorLevel:
		rollbar.Error(cause, extras)
	default:
		rollbar.Warning(cause, extras)
	}
	return nil
}

// Sync implements zapcore.Core.
func (c *RollbarCore) Sync() error {
	rollbar.Wait()
	return nil
}
