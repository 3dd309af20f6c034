package lgr

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newProductionEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.EpochTimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// ParseLevel reads a zap level name, INFO when empty.
func ParseLevel(logLevel string) (zapcore.Level, error) {
	var level zapcore.Level
	if logLevel == "" {
		logLevel = "INFO"
	}
	if err := level.Set(logLevel); err != nil {
		return level, fmt.Errorf("can't set log level: %w", err)
	}
	return level, nil
}

// InitializeLogger builds the json logger the binaries write to stderr with.
// Stdout is left to command output such as a reindexed table.
func InitializeLogger(logLevel string) *zap.Logger {
	level, err := ParseLevel(logLevel)
	if err != nil {
		panic(err.Error())
	}

	logger, err := zap.Config{
		Encoding:      "json",
		Level:         zap.NewAtomicLevelAt(level),
		OutputPaths:   []string{"stderr"},
		EncoderConfig: newProductionEncoderConfig(),
	}.Build()
	if err != nil {
		panic(fmt.Sprintf("can't initialise the logger: %s", err.Error()))
	}
	return logger
}
