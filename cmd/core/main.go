/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/netwatch-io/netwatch/pkg/config"
	"github.com/netwatch-io/netwatch/pkg/db"
	"github.com/netwatch-io/netwatch/pkg/logger"
	"github.com/netwatch-io/netwatch/pkg/models"
	"github.com/netwatch-io/netwatch/pkg/poller"
	"github.com/netwatch-io/netwatch/pkg/registry"
	"github.com/netwatch-io/netwatch/pkg/streamer"
	"github.com/netwatch-io/netwatch/pkg/timeseries"
)

var errFailedToLoadConfig = fmt.Errorf("failed to load config")

const defaultShutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/netwatch/core.json", "Path to core config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfgLoader := config.NewConfig(nil)

	var cfg models.CoreConfig

	if err := cfgLoader.LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	logConfig := &logger.Config{Level: "info", Output: "stdout"}
	if cfg.Logging != nil {
		logConfig = &logger.Config{
			Level:  cfg.Logging.Level,
			Debug:  cfg.Logging.Debug,
			Output: cfg.Logging.Output,
		}
	}

	coreLogger, err := logger.New(logConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// An unusable persistence collaborator at startup is the one fatal
	// condition in the core.
	metadata, err := db.New(ctx, &cfg.Database, coreLogger)
	if err != nil {
		return err
	}
	defer metadata.Close()

	store, err := timeseries.NewPgStore(ctx, &cfg.Database, coreLogger)
	if err != nil {
		return err
	}

	buffer := timeseries.NewBuffer(store, timeseries.BufferConfig{
		BatchSize:      cfg.Ingestion.BatchSize,
		FlushInterval:  time.Duration(cfg.Ingestion.FlushInterval),
		AlarmThreshold: cfg.Ingestion.AlarmThreshold,
	}, coreLogger)

	hub := streamer.NewHub(streamer.HubConfig{
		HeartbeatInterval: time.Duration(cfg.Heartbeat.Interval),
		HeartbeatTimeout:  time.Duration(cfg.Heartbeat.Timeout),
	}, staticTokenAuthorizer(), coreLogger)

	devicePoller := poller.New(buffer, coreLogger, poller.WithPublisher(hub))

	inventory := registry.NewManager(metadata, devicePoller, coreLogger)
	if err := inventory.LoadDevices(ctx); err != nil {
		return err
	}

	snapshotter := streamer.NewSnapshotter(
		hub, devicePoller, buffer, metadata,
		time.Duration(cfg.SnapshotInterval), coreLogger)
	snapshotter.Start(ctx)

	mux := http.NewServeMux()
	mux.Handle("/api/stream", hub)

	listenAddr := cfg.ListenAddr
	if listenAddr == "" {
		listenAddr = ":8090"
	}

	server := &http.Server{
		Addr:              listenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		coreLogger.Info().Str("listen_addr", listenAddr).Msg("Stream endpoint listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownTimeout := time.Duration(cfg.ShutdownTimeout)
		if shutdownTimeout <= 0 {
			shutdownTimeout = defaultShutdownTimeout
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// Ordered teardown: stop producers, drain the buffer, then
		// release transports.
		devicePoller.Stop()

		if err := buffer.Stop(shutdownCtx); err != nil {
			coreLogger.Error().Err(err).Msg("Buffer drain incomplete at shutdown")
		}

		snapshotter.Stop()
		hub.Stop()

		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

// staticTokenAuthorizer accepts the shared token from NETWATCH_STREAM_TOKEN.
// An empty token rejects every credential.
func staticTokenAuthorizer() streamer.Authorizer {
	token := os.Getenv("NETWATCH_STREAM_TOKEN")

	return func(candidate string) bool {
		return token != "" && candidate == token
	}
}
