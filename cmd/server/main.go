package main

import (
	"fmt"

	"agent-calc/internal/config"
	"agent-calc/internal/logger"
	"agent-calc/internal/server"
)

func main() {
	cfg := config.Load()
	logger.InitLogger(cfg.Log)
	defer logger.Sync()

	for _, warning := range cfg.Warnings {
		logger.Warnf("%s", warning)
	}
	logger.Infof("Starting calculator server on port %d, tick ceiling %d", cfg.Port, cfg.MaxTicks)

	log := logger.GetLogger()
	srv := server.NewServer(log, cfg.CalculatorOptions(log)...)
	if err := srv.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		logger.Fatalf("Server stopped: %v", err)
	}
}
