package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/adrg/xdg"
	"golang.org/x/sync/errgroup"

	"github.com/studyshare/docview/internal/config"
	"github.com/studyshare/docview/internal/history"
	"github.com/studyshare/docview/internal/logger"
	"github.com/studyshare/docview/internal/notify"
	"github.com/studyshare/docview/internal/preview"
	"github.com/studyshare/docview/internal/server"
	"github.com/studyshare/docview/internal/transfer"
)

func main() {
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v\n", err)
	}

	if *debug {
		cfg.Debug = true
	}

	err = logger.InitLogging(cfg.Debug, filepath.Join(xdg.StateHome, "docview", "docview.log"))
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v\n", err)
	}
	defer logger.Close()

	if err := os.MkdirAll(filepath.Dir(cfg.HistoryDBPath), 0o755); err != nil {
		log.Fatalf("Error creating data directory: %v\n", err)
	}

	store, err := history.NewStore(cfg.HistoryDBPath)
	if err != nil {
		log.Fatalf("Error opening history store: %v\n", err)
	}

	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Error closing history store: %v\n", err)
		}
	}()

	sink := notify.NewSink(64)

	engine := transfer.NewEngine(transfer.Config{
		ArtifactDir: cfg.ArtifactDir,
		TempDir:     cfg.TempDir,
		Timeout:     cfg.DownloadTimeout,
	}, sink)

	srv := server.New(cfg.ListenAddr, engine, store, preview.NewSelector(cfg.OfficeViewerURL))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Run(ctx)
	})

	g.Go(func() error {
		for {
			select {
			case msg := <-sink.Messages():
				logger.Infof("[%s] %s: %s", msg.Level, msg.Title, msg.Description)
			case <-ctx.Done():
				return nil
			}
		}
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v\n", err)
	}

	logger.Infof("Shutdown complete.")
}
