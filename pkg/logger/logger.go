package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures the process logger.
type Options struct {
	AppEnv  string
	AppName string
	Level   string
}

// New builds the process logger and installs it as zap's global logger.
func New(opts Options) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)

	if opts.AppEnv == "production" {
		config := zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.EncoderConfig.StacktraceKey = "stacktrace"
		config.EncoderConfig.LevelKey = "severity"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		config.EncoderConfig.CallerKey = "caller"
		config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
		config.Encoding = "json"
		config.OutputPaths = []string{"stdout"}
		config.ErrorOutputPaths = []string{"stderr"}
		if opts.Level != "" {
			level, perr := zap.ParseAtomicLevel(opts.Level)
			if perr != nil {
				return nil, perr
			}
			config.Level = level
		}
		log, err = config.Build()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}

	log = log.With(
		zap.String("env", opts.AppEnv),
		zap.String("service_name", opts.AppName),
	)

	zap.ReplaceGlobals(log)
	return log, nil
}
