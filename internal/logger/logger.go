package logger

import (
	"fmt"
	"strings"

	"github.com/roomledger/roomledger/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the application zap.Logger from config: JSON output at the
// configured level, tagged with service name, environment and version.
// Development gets console encoding for readable local output. The
// logger is installed as the zap global.
func New(cfg config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Encoding = encodingFor(cfg.Environment)
	zapCfg.EncoderConfig.TimeKey = "ts"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level := strings.TrimSpace(cfg.LogLevel)
	if level == "" {
		level = "info"
	}
	if err := zapCfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	logger = logger.With(
		zap.String("service", cfg.AppName),
		zap.String("env", cfg.Environment),
		zap.String("version", cfg.AppVersion),
	)

	zap.ReplaceGlobals(logger)
	return logger, nil
}

func encodingFor(environment string) string {
	if strings.EqualFold(strings.TrimSpace(environment), "development") {
		return "console"
	}
	return "json"
}
