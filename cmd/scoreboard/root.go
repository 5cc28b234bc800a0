package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dkeye/ScoreStream/internal/adapters/tui"
	"github.com/dkeye/ScoreStream/internal/app/client"
	"github.com/dkeye/ScoreStream/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "scoreboard",
	Short: "Live badminton scoreboard for one room",
	Long: `scoreboard connects to a live-scoring server over websocket,
joins a room by key and shows the latest score of both players.
The connection is re-established automatically when it drops.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		// The terminal belongs to tview; logs go to a file or nowhere.
		closeLog, err := setupLogging(cfg, io.Discard)
		if err != nil {
			return err
		}
		defer closeLog()

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		c := client.FromConfig(cfg)
		ui := tui.New(c.Session, c.Session, cfg.Room)
		c.JoinWhenConnected(cfg.Room)
		c.Start(ctx)
		defer c.Stop()

		if err := ui.Run(ctx); err != nil {
			return fmt.Errorf("terminal ui: %w", err)
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config/config.$CONFIG_ENV.yaml)")
	rootCmd.PersistentFlags().String("endpoint", "", "websocket endpoint of the scoring server")
	rootCmd.PersistentFlags().String("room", "", "room key to join as soon as connected")
	rootCmd.PersistentFlags().Duration("reconnect-delay", 0, "delay before reconnecting after a drop")
	rootCmd.PersistentFlags().Bool("reset-on-disconnect", true, "return to the join form when the connection drops")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to this file")
}

// loadConfig reads the config file and env; flags the user set win.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(config.Source{File: cfgFile, Flags: cmd.Flags()})
}

func setupLogging(cfg *config.Config, fallback io.Writer) (func(), error) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(cfg.Level())
	if cfg.LogFile == "" {
		log.Logger = zerolog.New(fallback).With().Timestamp().Logger()
		return func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return func() { _ = f.Close() }, nil
}
