// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	responded_api "github.com/rapidaai/speaker/api/speaker-api/api/responded"
	internal_audio "github.com/rapidaai/speaker/api/speaker-api/internal/audio"
	internal_synthesizes "github.com/rapidaai/speaker/api/speaker-api/internal/synthesizes"
	internal_type "github.com/rapidaai/speaker/api/speaker-api/internal/type"
	speaker_routers "github.com/rapidaai/speaker/api/speaker-api/router"
	"github.com/rapidaai/speaker/config"
	"github.com/rapidaai/speaker/pkg/commons"
	"github.com/rapidaai/speaker/pkg/utils"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type AppRunner struct {
	Cfg    *config.AppConfig
	Logger commons.Logger
	Redis  *redis.Client
	Server *http.Server
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &AppRunner{}
	if err := app.ResolveConfig(); err != nil {
		log.Fatalf("speaker-api: unable to resolve config: %v", err)
	}
	if err := app.Logging(); err != nil {
		log.Fatalf("speaker-api: unable to create logger: %v", err)
	}
	defer app.Logger.Sync()

	app.AllConnectors(ctx)
	app.Init()

	if err := app.Run(ctx); err != nil {
		app.Logger.Errorf("speaker-api: server exited with error: %v", err)
		os.Exit(1)
	}
	app.Logger.Info("speaker-api: stopped")
}

func (app *AppRunner) ResolveConfig() error {
	v, err := config.InitConfig()
	if err != nil {
		return err
	}
	cfg, err := config.GetApplicationConfig(v)
	if err != nil {
		return err
	}
	app.Cfg = cfg
	return nil
}

func (app *AppRunner) Logging() error {
	opts := []commons.LoggerOption{
		commons.Name(app.Cfg.Name),
		commons.Level(app.Cfg.LogLevel),
	}
	if app.Cfg.LogPath != "" {
		opts = append(opts, commons.Path(app.Cfg.LogPath))
	}
	logger, err := commons.NewApplicationLogger(opts...)
	if err != nil {
		return err
	}
	app.Logger = logger
	return nil
}

// AllConnectors opens the optional redis connection used by the audio cache.
// An unreachable redis is logged; cache calls then fail and fall through to
// synthesis.
func (app *AppRunner) AllConnectors(ctx context.Context) {
	rc := app.Cfg.RedisConfig
	if !rc.Enabled {
		app.Logger.Info("speaker-api: redis audio cache disabled")
		return
	}
	app.Redis = redis.NewClient(&redis.Options{
		Addr:     rc.Address(),
		Password: rc.Password,
		DB:       rc.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := app.Redis.Ping(pingCtx).Err(); err != nil {
		app.Logger.Warnf("speaker-api: redis at %s is not reachable: %v", rc.Address(), err)
		return
	}
	app.Logger.Infof("speaker-api: redis audio cache connected at %s", rc.Address())
}

func (app *AppRunner) normalizerOptions() utils.Option {
	nc := app.Cfg.NormalizerConfig
	opts := utils.Option{
		internal_type.OptionsKeyLanguage: app.Cfg.SynthesisConfig.Language,
	}
	if len(nc.ReasoningTags) > 0 {
		opts[internal_type.OptionsKeyReasoningTags] = strings.Join(nc.ReasoningTags, commons.SEPARATOR)
	}
	if len(nc.Pipeline) > 0 {
		opts[internal_type.OptionsKeyPipeline] = strings.Join(nc.Pipeline, commons.SEPARATOR)
	}
	return opts
}

func (app *AppRunner) Init() {
	var cache internal_audio.Cache
	if app.Redis != nil {
		cache = internal_audio.NewRedisCache(app.Logger, app.Redis, app.Cfg.RedisConfig.TTL)
	}

	handler := responded_api.NewHandler(
		app.Logger,
		app.Cfg.SynthesisConfig,
		app.normalizerOptions(),
		internal_synthesizes.NewCharacterSynthesizer(app.Logger, app.Cfg.SynthesisConfig),
		internal_audio.NewFileStore(app.Logger, app.Cfg.AudioConfig),
		cache,
	)

	engine := speaker_routers.NewEngine(app.Cfg, app.Logger)
	speaker_routers.HealthCheckRoutes(app.Cfg, engine, app.Logger)
	speaker_routers.SpeakerApiRoute(app.Cfg, engine, app.Logger, handler)

	app.Server = &http.Server{
		Addr:              app.Cfg.Address(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (app *AppRunner) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Logger.Infof("speaker-api: listening on %s (%s)", app.Cfg.Address(), app.Cfg.Environment().Get())
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("speaker-api: listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		app.Logger.Info("speaker-api: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := app.Server.Shutdown(shutdownCtx)
		if app.Redis != nil {
			if cerr := app.Redis.Close(); cerr != nil {
				app.Logger.Warnf("speaker-api: closing redis: %v", cerr)
			}
		}
		return err
	})

	return g.Wait()
}
