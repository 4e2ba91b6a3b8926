package config

import (
	"fmt"
	"os"
	"strconv"

	"agent-calc/internal/calculator"
	"agent-calc/internal/logger"
	"agent-calc/internal/trace"

	"go.uber.org/zap"
)

type Config struct {
	MaxTicks int
	Trace    bool
	Seed     int64
	Port     int
	Log      logger.Config

	// Warnings lists variables that were set but could not be used. They
	// are collected rather than logged because the logger is configured
	// from the same environment.
	Warnings []string
}

// Load reads the configuration from the environment.
func Load() Config {
	var cfg Config
	cfg.MaxTicks = cfg.getEnvOrDefaultInt("CALC_MAX_TICKS", calculator.DefaultMaxTicks)
	cfg.Trace = cfg.getEnvOrDefaultBool("CALC_TRACE", false)
	cfg.Seed = cfg.getEnvOrDefaultInt64("CALC_SEED", 0)
	cfg.Port = cfg.getEnvOrDefaultInt("PORT", 8080)
	cfg.Log = logger.Config{
		Level:      logger.LogLevel(getEnvOrDefault("LOG_LEVEL", string(logger.InfoLevel))),
		OutputPath: getEnvOrDefault("LOG_OUTPUT", "stdout"),
		Encoding:   getEnvOrDefault("LOG_ENCODING", logger.EncodingConsole),
	}
	if cfg.Trace {
		cfg.Log.Level = logger.DebugLevel
	}
	return cfg
}

// CalculatorOptions turns the configuration into calculator options.
func (c Config) CalculatorOptions(log *zap.Logger) []calculator.Option {
	opts := []calculator.Option{
		calculator.WithLogger(log),
		calculator.WithMaxTicks(c.MaxTicks),
		calculator.WithSeed(c.Seed),
	}
	if c.Trace {
		opts = append(opts, calculator.WithObserver(trace.NewZap(log)))
	}
	return opts
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) getEnvOrDefaultInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		c.warnf("failed to parse environment variable %s as integer: %s, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	if intValue < 1 {
		c.warnf("environment variable %s has invalid value: %s (less than 1), using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return intValue
}

func (c *Config) getEnvOrDefaultInt64(key string, defaultValue int64) int64 {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		c.warnf("failed to parse environment variable %s as integer: %s, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return intValue
}

func (c *Config) getEnvOrDefaultBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		c.warnf("failed to parse environment variable %s as boolean: %s, using default: %t", key, value, defaultValue)
		return defaultValue
	}
	return boolValue
}

func (c *Config) warnf(format string, args ...interface{}) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}
