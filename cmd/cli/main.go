package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/ghbrowse/internal/client/cli"
	"github.com/dmitrijs2005/ghbrowse/internal/client/config"
	"github.com/dmitrijs2005/ghbrowse/internal/logging"
)

func loadConfig() (cfg *config.Config) {
	defer func() {
		if r := recover(); r != nil {
			log.Fatalf("invalid configuration: %v", r)
		}
	}()
	return config.LoadConfig()
}

func main() {
	ctx := context.Background()
	cfg := loadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if cfg.Token == "" {
		tok, err := cli.PromptToken(os.Stdout)
		if err != nil {
			log.Fatalf("read token: %v", err)
		}
		cfg.Token = tok
	}

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
