package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/gl-labs/groundlink"
	"github.com/gl-labs/groundlink/internal/adapters/replay"
	"github.com/gl-labs/groundlink/internal/adapters/udp"
	"github.com/gl-labs/groundlink/internal/cliconfig"
	"github.com/gl-labs/groundlink/pkg/dialect"
	logAdapter "github.com/gl-labs/groundlink/pkg/log"
	"github.com/gl-labs/groundlink/plugins/dialectwatcher"
)

const helpBanner = `
   ____ ____   ___  _   _ _   _ ____  _     ___ _   _ _  __
  / ___|  _ \ / _ \| | | | \ | |  _ \| |   |_ _| \ | | |/ /
 | |  _| |_) | | | | | | |  \| | | | | |    | ||  \| | ' /
 | |_| |  _ <| |_| | |_| | |\  | |_| | |___ | || |\  | . \
  \____|_| \_\\___/ \___/|_| \_|____/|_____|___|_| \_|_|\_\
`

const helpDescription = `
Decode a live telemetry stream against a runtime-loaded dialect and keep
the recent history queryable for plotting.

Highlights:
  - Resynchronizing frame decoder; corrupt or unknown frames never stall the link.
  - Dialect schemas load from TOML at startup and hot-reload on change.
  - Bounded per-field ring buffers with windowed queries and downsampling.
  - Configure via file, env (GROUNDLINK_*), or flags.
`

var longHelp = strings.TrimSpace(helpBanner) + "\n\n" + strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  groundlink --dialect ./dialects/common.toml --listen :14550
  groundlink --dialect ./dialects/common.toml --replay capture.bin --replay-interval 10ms
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "groundlink",
		Short:   "Decode live telemetry into a queryable time-series store",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default $HOME/.groundlink/config.toml),
			// then env, then flag overrides.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			log.Info().Interface("config", cfg).Msg("configuration")

			primary, err := dialect.ReadFile(cfg.DialectPath)
			if err != nil {
				return fmt.Errorf("read dialect: %w", err)
			}
			includes, err := dialect.ReadDir(cfg.IncludeDir)
			if err != nil {
				return fmt.Errorf("read includes: %w", err)
			}

			libCfg := groundlink.Config{
				DialectPath:           cfg.DialectPath,
				IncludeDir:            cfg.IncludeDir,
				FieldCapacity:         cfg.FieldCapacity,
				StalenessWindow:       cfg.StalenessWindow,
				ViewSpan:              cfg.ViewSpan,
				TargetPoints:          cfg.TargetPoints,
				EnablePointDecimation: cfg.EnablePointDecimation,
			}

			opts := []groundlink.Option{
				groundlink.WithLogger(logAdapter.NewZerologAdapterWithLogger(log)),
			}
			if cfg.WatchDialect {
				opts = append(opts, dialectwatcher.WithDefaultDialectWatcher())
			}

			var promReg *prometheus.Registry
			if cfg.MetricsListen != "" {
				promReg = prometheus.NewRegistry()
				opts = append(opts, groundlink.WithMetricsRegistry(promReg))
			}

			gl, err := groundlink.New(libCfg, opts...)
			if err != nil {
				return fmt.Errorf("create groundlink: %w", err)
			}
			if err := gl.LoadDialect(primary, includes...); err != nil {
				return fmt.Errorf("load dialect: %w", err)
			}

			var src groundlink.ByteSource
			if cfg.ReplayPath != "" {
				src = replay.NewSource(cfg.ReplayPath, cfg.ReplayChunk, cfg.ReplayInterval, logAdapter.NewZerologAdapterWithLogger(log))
			} else {
				src = udp.NewSource(cfg.ListenAddr, logAdapter.NewZerologAdapterWithLogger(log))
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			if promReg != nil {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
				metricsSrv := &http.Server{Addr: cfg.MetricsListen, Handler: mux}
				go func() {
					if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						log.Error().Err(err).Msg("metrics server")
					}
				}()
				defer metricsSrv.Close()
				log.Info().Str("addr", cfg.MetricsListen).Msg("metrics endpoint listening")
			}

			if err := gl.Start(ctx, src); err != nil {
				return fmt.Errorf("start groundlink: %w", err)
			}

			// Redraw cadence: refresh every tracked field through the view
			// (which schedules decimation) and log a status line.
			doneCh := make(chan struct{})
			go func() {
				ticker := time.NewTicker(cfg.RedrawInterval)
				defer ticker.Stop()
				view := gl.View()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						state := gl.State()
						if state == groundlink.StateStopped || state == groundlink.StateCrashed {
							close(doneCh)
							return
						}
						view.Collect()
						now := time.Now()
						for _, key := range gl.Store().Keys() {
							if err := view.Refresh(ctx, key, now); err != nil {
								log.Debug().Err(err).Str("field", key).Msg("refresh failed")
							}
						}
						stats := gl.Stats()
						log.Info().
							Uint64("frames", stats.Frames).
							Uint64("crc_failures", stats.CRCFailures).
							Uint64("unknown", stats.UnknownMessages).
							Uint64("garbage", stats.GarbageBytes).
							Int("fields", gl.Store().NumFields()).
							Bool("stale", gl.Stale()).
							Msg("link status")
					}
				}
			}()

			select {
			case <-sigCh:
				log.Info().Msg("received signal, stopping...")
			case <-doneCh:
				if gl.State() == groundlink.StateCrashed {
					log.Error().Msg("groundlink crashed")
				}
			}

			if err := gl.Stop(); err != nil {
				return fmt.Errorf("stop groundlink: %w", err)
			}
			return nil
		},
	}

	// Flags
	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.groundlink/config.toml)")
	root.Flags().StringVar(&cfg.DialectPath, "dialect", cfg.DialectPath, "path to the primary dialect TOML document")
	root.Flags().StringVar(&cfg.IncludeDir, "include-dir", cfg.IncludeDir, "directory searched for included dialect documents")
	root.Flags().BoolVar(&cfg.WatchDialect, "watch-dialect", cfg.WatchDialect, "reload the dialect when its files change")

	root.Flags().StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "UDP address to receive telemetry on")
	root.Flags().StringVar(&cfg.ReplayPath, "replay", cfg.ReplayPath, "replay a raw capture file instead of listening")
	root.Flags().IntVar(&cfg.ReplayChunk, "replay-chunk", cfg.ReplayChunk, "bytes per replay read")
	root.Flags().DurationVar(&cfg.ReplayInterval, "replay-interval", cfg.ReplayInterval, "pause between replay reads (0 = as fast as possible)")

	root.Flags().IntVar(&cfg.FieldCapacity, "field-capacity", cfg.FieldCapacity, "samples retained per field")
	root.Flags().IntVar(&cfg.TargetPoints, "target-points", cfg.TargetPoints, "downsampling target per field")
	root.Flags().BoolVar(&cfg.EnablePointDecimation, "decimate", cfg.EnablePointDecimation, "downsample dense windows in the background")
	root.Flags().DurationVar(&cfg.ViewSpan, "view-span", cfg.ViewSpan, "live window width")
	root.Flags().DurationVar(&cfg.RedrawInterval, "redraw-interval", cfg.RedrawInterval, "status line interval")
	root.Flags().DurationVar(&cfg.StalenessWindow, "staleness-window", cfg.StalenessWindow, "report the link stale after this long without a valid frame")

	root.Flags().StringVar(&cfg.MetricsListen, "metrics-listen", cfg.MetricsListen, "serve Prometheus metrics on this address (empty = disabled)")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("groundlink")
		os.Exit(1)
	}
}
