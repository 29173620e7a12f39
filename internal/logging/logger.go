// Package logging builds the process-wide zap logger.
package logging

import (
	"strings"

	"github.com/onecard-go/onecard/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level maps a configured level name to a zap level. Unknown names fall back
// to info.
func Level(name string) zapcore.Level {
	switch strings.ToLower(name) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Config converts logging settings into a zap configuration: json selects the
// production encoder, anything else the development console encoder with
// colored levels.
func Config(cfg config.LoggingConfig) zap.Config {
	var zapCfg zap.Config
	if strings.ToLower(cfg.Format) == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(Level(cfg.Level))
	if cfg.Output != "" {
		zapCfg.OutputPaths = []string{cfg.Output}
	}
	return zapCfg
}

// New initializes the zap logger based on configuration.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	return Config(cfg).Build()
}
