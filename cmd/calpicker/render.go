package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"calpicker/internal/capture"
	appLog "calpicker/internal/log"
	"calpicker/internal/web"
)

func newRenderCmd() *cobra.Command {
	var (
		out     string
		width   int
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the picker page to a PNG",
		Long: `Start the web host on a loopback port, capture the picker page with
headless Chromium and write the PNG. Defaults to <cache_dir>/preview.png.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}
			opts, err := pickerOptions(conf)
			if err != nil {
				return err
			}
			if out == "" {
				out = filepath.Join(conf.CacheDir, "preview.png")
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}

			// Basic Auth would block the headless browser.
			local := *conf
			local.BasicAuth = nil
			srv, err := web.NewServer(&local, opts, "")
			if err != nil {
				return err
			}

			ln, err := net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				return err
			}
			hs := &http.Server{Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}
			go func() {
				if err := hs.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					appLog.Error("render server failed", err)
				}
			}()
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = hs.Shutdown(ctx)
			}()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			err = capture.CapturePickerPNG(ctx, capture.Options{
				URL:        "http://" + ln.Addr().String() + "/",
				OutputPath: out,
				Scale:      conf.Appearance.ScaleFactor,
				Width:      width,
				Timeout:    timeout,
			})
			if err != nil {
				appLog.Error("render failed", err)
				return err
			}
			appLog.Info("rendered picker", "path", out, "date", opts.SelectedDate)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output PNG path")
	cmd.Flags().IntVar(&width, "width", 0, "Viewport width in pixels (default follows scale_factor)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Capture timeout (default 30s)")
	return cmd
}
