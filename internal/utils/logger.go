package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logDirectoryPermissions    = 0o755
	createLogDirectoryErrorFmt = "create log directory %s: %w"
)

// NewApplicationLogger constructs a zap logger configured for human-readable console output on stderr.
func NewApplicationLogger() (*zap.Logger, error) {
	return consoleConfiguration("stderr").Build()
}

// NewFileLogger constructs a console-encoded zap logger that appends to the file at logPath.
// The terminal UI owns stdout and stderr while it runs, so its diagnostics go here.
func NewFileLogger(logPath string) (*zap.Logger, error) {
	if mkdirError := os.MkdirAll(filepath.Dir(logPath), logDirectoryPermissions); mkdirError != nil {
		return nil, fmt.Errorf(createLogDirectoryErrorFmt, filepath.Dir(logPath), mkdirError)
	}
	configuration := consoleConfiguration(logPath)
	configuration.EncoderConfig.TimeKey = "time"
	configuration.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	configuration.EncoderConfig.LevelKey = "level"
	return configuration.Build()
}

// LoggerOrNop returns logger, or a no-op logger when logger is nil.
func LoggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func consoleConfiguration(outputPath string) zap.Config {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.OutputPaths = []string{outputPath}
	config.ErrorOutputPaths = []string{outputPath}
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.LevelKey = ""
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.StacktraceKey = ""
	return config
}
