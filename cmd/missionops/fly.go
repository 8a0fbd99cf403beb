package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"missionops/internal/config"
	"missionops/internal/logging"
	"missionops/internal/mission"
	"missionops/internal/observability"
	"missionops/internal/statusd"
	"missionops/internal/vehicle"
)

var (
	flyConfigPath string
	flySchemaPath string
	flyShape      string
	flyOutput     string
	flyLogFile    string
	flyPrintOnly  bool
	flyTUI        bool
	flyStatusAddr string
	flyVerbose    bool
)

var flyCmd = &cobra.Command{
	Use:   "fly",
	Short: "Fly the configured trajectory under safety supervision",
	Long:  "fly arms the vehicle, aligns with the trajectory start, executes the reference path under the safety watchdog, and records telemetry.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New(flyVerbose)

		cfg, err := config.Load(flyConfigPath, flySchemaPath)
		if err != nil {
			return err
		}
		if flyShape != "" {
			cfg.Trajectory.Shape = flyShape
		}
		if flyOutput != "" {
			cfg.Recorder.Output = flyOutput
		}

		params, err := cfg.MissionParams()
		if err != nil {
			return err
		}

		writer, cleanup, err := newWriters(cfg, flyPrintOnly, flyTUI, flyLogFile, log)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx = logging.NewContext(ctx, log)

		if cfg.Link.Endpoint != "sitl" {
			return fmt.Errorf("unsupported link endpoint %q (only sitl is built in)", cfg.Link.Endpoint)
		}
		sitl := vehicle.NewSITL(20 * time.Millisecond)
		go sitl.Run(ctx)

		metrics := observability.NewCollector()
		m := mission.New(params, sitl, writer, nil, metrics)

		if flyStatusAddr != "" {
			srv := statusd.NewServer(m.ID, m.Store(), metrics, log)
			go func() {
				log.Info("status server listening", "addr", flyStatusAddr)
				if err := srv.Start(ctx, flyStatusAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("status server failed", "err", err)
				}
			}()
		}

		return m.Run(ctx)
	},
}

func init() {
	flyCmd.Flags().StringVar(&flyConfigPath, "config", "config/mission.yaml", "Path to mission configuration YAML")
	flyCmd.Flags().StringVar(&flySchemaPath, "schema", "schemas/mission.cue", "Path to CUE schema file")
	flyCmd.Flags().StringVar(&flyShape, "trajectory", "", "Override trajectory shape (circle, figure8, spiral)")
	flyCmd.Flags().StringVar(&flyOutput, "output", "", "Override CSV telemetry output path")
	flyCmd.Flags().StringVar(&flyLogFile, "log-file", "", "Path to export telemetry/event logs (JSONL)")
	flyCmd.Flags().BoolVar(&flyPrintOnly, "print-only", false, "Print telemetry to STDOUT instead of writing to DB")
	flyCmd.Flags().BoolVar(&flyTUI, "tui", false, "Render live telemetry in a terminal UI")
	flyCmd.Flags().StringVar(&flyStatusAddr, "status-addr", "", "Serve the status page and metrics on this address (e.g. :8080)")
	flyCmd.Flags().BoolVar(&flyVerbose, "verbose", false, "Enable debug logging")
}
