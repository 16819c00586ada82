package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ar4ie13/tutorialplatform/internal/apps"
	"github.com/ar4ie13/tutorialplatform/internal/auth"
	"github.com/ar4ie13/tutorialplatform/internal/config"
	"github.com/ar4ie13/tutorialplatform/internal/flusher"
	"github.com/ar4ie13/tutorialplatform/internal/handlers"
	"github.com/ar4ie13/tutorialplatform/internal/logger"
	"github.com/ar4ie13/tutorialplatform/internal/passwords"
	"github.com/ar4ie13/tutorialplatform/internal/repository"
	"github.com/ar4ie13/tutorialplatform/internal/service"
	"github.com/gin-gonic/gin"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.NewConfig(os.Args[1:])
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.PrintSettings {
		out, err := cfg.YAML()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	}

	zlog := logger.NewLogger(cfg.LogConf.Level)
	for _, w := range cfg.Check() {
		zlog.Warn().Str("id", w.ID).Msg(w.Message)
	}

	if cfg.ServerConf.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	registry, err := apps.New(cfg.Apps)
	if err != nil {
		return err
	}
	zlog.Info().Strs("apps", registry.Names()).Msg("installed components")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := repository.NewRepository(ctx, cfg.PGConf, zlog.Logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			zlog.Error().Msgf("failed to close repository: %v", err)
		}
	}()

	chain, err := passwords.NewChain(cfg.AuthConf.PasswordValidators)
	if err != nil {
		return err
	}

	var store auth.TokenStore
	if registry.Installed(apps.TokenBlacklist) {
		store = repo
		fl := flusher.NewFlusher(cfg.FlushConf, zlog.Logger, repo)
		fl.Start(ctx)
		defer fl.Stop()
	}

	a, err := auth.NewAuth(cfg.AuthConf, chain, store)
	if err != nil {
		return err
	}

	srv := service.NewService(repo, zlog.Logger)
	h := handlers.NewHandlers(cfg.ServerConf, []byte(cfg.AuthConf.SecretKey), a, srv, zlog.Logger)

	return h.ListenAndServe(ctx)
}
