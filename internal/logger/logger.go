package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log  *zap.Logger
	once sync.Once
)

// InitLogger builds the process-wide logger. Only the first call has an
// effect.
func InitLogger(cfg Config) {
	once.Do(func() {
		log = New(cfg)
	})
}

// New builds a standalone logger from cfg. An output file that cannot be
// opened falls back to stdout.
func New(cfg Config) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if cfg.Encoding == EncodingJSON {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, output(cfg.OutputPath), ParseLevel(cfg.Level))
	return zap.New(core, zap.AddCaller())
}

// ParseLevel maps a configured level to zap's, defaulting to info.
func ParseLevel(level LogLevel) zapcore.Level {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func output(path string) zapcore.WriteSyncer {
	switch path {
	case "", "stdout":
		return zapcore.AddSync(os.Stdout)
	case "stderr":
		return zapcore.AddSync(os.Stderr)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return zapcore.AddSync(os.Stdout)
	}
	return zapcore.AddSync(file)
}

// GetLogger returns the process-wide logger, initialising it with
// DefaultConfig if needed.
func GetLogger() *zap.Logger {
	InitLogger(DefaultConfig())
	return log
}

// Named returns a child of the process-wide logger.
func Named(name string) *zap.Logger {
	return GetLogger().Named(name)
}

func Sync() error {
	return GetLogger().Sync()
}

func Debugf(template string, args ...interface{}) {
	GetLogger().WithOptions(zap.AddCallerSkip(1)).Sugar().Debugf(template, args...)
}

func Infof(template string, args ...interface{}) {
	GetLogger().WithOptions(zap.AddCallerSkip(1)).Sugar().Infof(template, args...)
}

func Warnf(template string, args ...interface{}) {
	GetLogger().WithOptions(zap.AddCallerSkip(1)).Sugar().Warnf(template, args...)
}

func Errorf(template string, args ...interface{}) {
	GetLogger().WithOptions(zap.AddCallerSkip(1)).Sugar().Errorf(template, args...)
}

func Fatalf(template string, args ...interface{}) {
	GetLogger().WithOptions(zap.AddCallerSkip(1)).Sugar().Fatalf(template, args...)
}
