package logsvc

import (
	"os"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
	"go.uber.org/zap/zapcore"

	"github.com/trezcool/placement/core"
)

// RollbarCore is a zapcore.Core reporting entries to Rollbar.
type RollbarCore struct {
	zapcore.LevelEnabler
	fields []zapcore.Field
}

var _ zapcore.Core = (*RollbarCore)(nil)

func NewRollbarCore(conf *core.Config, enab zapcore.LevelEnabler) *RollbarCore {
	host, _ := os.Hostname()

	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(!conf.TestMode)
	return &RollbarCore{LevelEnabler: enab}
}

func (c *RollbarCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &RollbarCore{LevelEnabler: c.LevelEnabler, fields: make([]zapcore.Field, 0, len(c.fields)+len(fields))}
	clone.fields = append(clone.fields, c.fields...)
	clone.fields = append(clone.fields, fields...)
	return clone
}

func (c *RollbarCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write sends the entry; an error field becomes the reported error, every other field goes to the extras.
func (c *RollbarCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	var reported error
	for _, f := range append(c.fields[:len(c.fields):len(c.fields)], fields...) {
		if f.Type == zapcore.ErrorType && reported == nil {
			if err, ok := f.Interface.(error); ok {
				reported = err
				continue
			}
		}
		f.AddTo(enc)
	}
	extras := enc.Fields
	extras["message"] = ent.Message
	if ent.Caller.Defined {
		extras["caller"] = ent.Caller.TrimmedPath()
	}

	level := rollbarLevel(ent.Level)
	if reported != nil {
		rollbar.ErrorWithExtras(level, reported, extras)
	} else {
		rollbar.MessageWithExtras(level, ent.Message, extras)
	}
	return nil
}

// Sync waits for queued reports to be delivered.
func (c *RollbarCore) Sync() error {
	rollbar.Wait()
	return nil
}

func rollbarLevel(lvl zapcore.Level) string {
	switch {
	case lvl >= zapcore.DPanicLevel:
		return rollbar.CRIT
	case lvl == zapcore.ErrorLevel:
		return rollbar.ERR
	case lvl == zapcore.WarnLevel:
		return rollbar.WARN
	case lvl == zapcore.InfoLevel:
		return rollbar.INFO
	}
	return rollbar.DEBUG
}
