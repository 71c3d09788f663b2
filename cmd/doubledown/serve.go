package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"DoubleDown/internal/collector"
	"DoubleDown/internal/recorder"
	"DoubleDown/internal/scheduler"
	"DoubleDown/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the stock data endpoint and the live replay page",
	Run: func(cmd *cobra.Command, args []string) {
		log.Info("DoubleDown starting...")

		cfg, err := loadConfig()
		if err != nil {
			log.Fatal(err)
		}

		addr, err := cmd.Flags().GetString("addr")
		if err != nil {
			log.Fatalf("error getting addr: %v", err)
		}
		if addr == "" {
			addr = cfg.Server.Addr
		}

		cached := collector.NewCachedFetcher(newFetcher(cfg, ""), cfg.CacheTTL())

		// Init recorder
		var rec recorder.Recorder
		if cfg.Database.SQLitePath != "" {
			sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
			if err != nil {
				log.Warnf("init sqlite recorder failed, using noop: %v", err)
				rec = recorder.NewNoopRecorder()
			} else {
				rec = sr
				defer sr.Close()
			}
		} else {
			rec = recorder.NewNoopRecorder()
		}

		sched := scheduler.NewScheduler(cached)
		if err := sched.RegisterAll(cfg.Schedule.CacheFlushCron); err != nil {
			log.Fatalf("register cron tasks: %v", err)
		}
		sched.Start()
		defer sched.Stop()

		srv := server.NewServer(cached, rec, cfg.Params())
		go func() {
			if err := srv.ListenAndServe(addr); err != nil {
				log.Fatal(err)
			}
		}()

		log.Info("DoubleDown is running. Press Ctrl+C to stop.")

		// Wait for shutdown signal
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Info("shutdown signal received, stopping...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("error shutting down server: %v", err)
		}
		log.Info("DoubleDown stopped")
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address, overriding server.addr from the config.")
}
