package main

import (
	"log/slog"
	"time"

	"github.com/soocke/fiducial-go/app"
	"github.com/soocke/fiducial-go/config"
	"github.com/soocke/fiducial-go/debug"
)

func main() {
	logger := NewLogger(slog.LevelInfo)

	cfgPath, err := config.DefaultPath()
	if err != nil {
		logger.Error("resolve config path", "error", err)
		return
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Warn("using default config", "path", cfgPath, "error", err)
		cfg = config.DefaultConfig()
	}

	if cfg.Debug {
		debug.StartGoroutineLogger(5*time.Second, logger)
		debug.StartMemLogger(5*time.Second, logger)
	}

	application := app.NewApp("Fiducial Scanner", 900, 700, cfg, logger, cfgPath)
	application.Start()
}
