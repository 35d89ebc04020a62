package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"calpicker/internal/capture"
	"calpicker/internal/config"
	"calpicker/internal/ics"
	appLog "calpicker/internal/log"
	"calpicker/internal/web"
)

func newServeCmd() *cobra.Command {
	var preview bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the picker over HTTP",
		Long: `Serve the picker page, its form actions and the JSON API.

ICS subscriptions from the config are loaded at startup and then on the
refresh cron schedule; their occurrence days are marked in the grid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), preview)
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, "Capture preview.png with headless Chromium after each refresh")
	return cmd
}

func runServe(parent context.Context, preview bool) error {
	appLog.Info("calpicker starting", "version", version)

	conf, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := pickerOptions(conf)
	if err != nil {
		return err
	}

	previewPath := filepath.Join(conf.CacheDir, "preview.png")
	srv, err := web.NewServer(conf, opts, previewPath)
	if err != nil {
		return err
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	loader := &ics.Loader{
		Fetcher:       ics.NewFetcher(filepath.Join(conf.CacheDir, "ics")),
		Sources:       ics.SourcesFromConfig(conf.ICS),
		Location:      conf.Location(),
		HorizonMonths: conf.MarkedHorizonMonths,
	}
	refresh := func() {
		refreshMarkedDays(ctx, conf, loader, srv)
		if preview {
			capturePreview(ctx, conf, previewPath)
		}
	}

	sched := cron.New(cron.WithLocation(conf.Location()))
	if len(loader.Sources) > 0 || preview {
		if _, err := sched.AddFunc(conf.RefreshCron, refresh); err != nil {
			appLog.Error("invalid refresh schedule", err, "refresh", conf.RefreshCron)
			return err
		}
		sched.Start()
		go refresh()
	}
	defer func() {
		<-sched.Stop().Done()
	}()

	err = srv.Serve(ctx, conf.Listen)
	appLog.Info("calpicker exiting")
	return err
}

func refreshMarkedDays(ctx context.Context, conf *config.Config, loader *ics.Loader, srv *web.Server) {
	if len(loader.Sources) == 0 {
		return
	}
	days, err := loader.Load(ctx, time.Now().In(conf.Location()))
	srv.RecordRefresh(err)
	if err != nil {
		appLog.Error("marked day refresh failed", err, "sources", len(loader.Sources))
		if len(days) == 0 {
			return
		}
	}
	srv.SetExtraMarkedDays(days)
}

func capturePreview(ctx context.Context, conf *config.Config, path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		appLog.Error("failed to create cache dir", err, "dir", filepath.Dir(path))
		return
	}
	err := capture.CapturePickerPNG(ctx, capture.Options{
		URL:        "http://" + conf.Listen + "/",
		OutputPath: path,
		Scale:      conf.Appearance.ScaleFactor,
	})
	if err != nil {
		appLog.Error("preview capture failed", err)
		return
	}
	appLog.Info("preview captured", "path", path)
}
