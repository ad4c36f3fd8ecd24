package logsvc

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trezcool/placement/core"
)

// New builds the application logger. Error entries are also reported to Rollbar when a token is configured.
func New(conf *core.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if conf.Debug {
		zc = zap.NewDevelopmentConfig()
	}
	if conf.TestMode {
		zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	opts := []zap.Option{
		zap.Fields(zap.String("app", conf.AppName), zap.String("env", conf.Env), zap.String("build", conf.Build)),
	}
	if conf.RollbarToken != "" {
		rc := NewRollbarCore(conf, zapcore.ErrorLevel)
		opts = append(opts, zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return zapcore.NewTee(c, rc)
		}))
	}
	return zc.Build(opts...)
}
