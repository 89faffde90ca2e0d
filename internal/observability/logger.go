package observability

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger constructs a production zap.Logger configured for the service.
// The returned logger should be passed to other components for structured logging.
func InitLogger() (*zap.Logger, error) {
	return InitLoggerWithService("adreport")
}

// InitLoggerWithService constructs a production zap.Logger named after the
// given service. The returned logger is also installed as the global logger.
func InitLoggerWithService(serviceName string) (*zap.Logger, error) {
	return InitLoggerWithLevel(getLogLevel(), serviceName)
}

// InitLoggerWithLevel constructs a zap.Logger at the provided level.
func InitLoggerWithLevel(level zapcore.Level, serviceName string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)

	// Field names match what the log shipper expects
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.NameKey = "logger"
	cfg.EncoderConfig.CallerKey = "caller"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.StacktraceKey = "stacktrace"

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	logger = logger.Named(serviceName).With(zap.String("service", serviceName))
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// getLogLevel determines the log level from ENV and LOG_LEVEL.
func getLogLevel() zapcore.Level {
	env := strings.ToLower(os.Getenv("ENV"))
	logLevel := strings.ToUpper(os.Getenv("LOG_LEVEL"))

	if logLevel == "" {
		if env == "development" || env == "dev" {
			return zap.DebugLevel
		}
		return zap.InfoLevel
	}

	switch logLevel {
	case "DEBUG":
		return zap.DebugLevel
	case "INFO":
		return zap.InfoLevel
	case "WARN":
		return zap.WarnLevel
	case "ERROR":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}
