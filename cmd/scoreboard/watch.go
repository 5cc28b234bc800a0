package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dkeye/ScoreStream/internal/adapters/tui"
	"github.com/dkeye/ScoreStream/internal/app/client"
	"github.com/dkeye/ScoreStream/internal/app/session"
)

var watchCmd = &cobra.Command{
	Use:   "watch [room_key]",
	Short: "Print one line per score change instead of the terminal UI",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			if err := cmd.Flags().Set("room", args[0]); err != nil {
				return err
			}
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Room == "" {
			return fmt.Errorf("watch needs a room key")
		}
		closeLog, err := setupLogging(cfg, zerolog.ConsoleWriter{Out: os.Stderr})
		if err != nil {
			return err
		}
		defer closeLog()

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		out := cmd.OutOrStdout()
		c := client.FromConfig(cfg)
		var (
			mu   sync.Mutex
			last string
		)
		c.Session.Subscribe(func(v session.View) {
			line := tui.Line(v)
			mu.Lock()
			defer mu.Unlock()
			if line == last {
				return
			}
			last = line
			fmt.Fprintln(out, line)
		})
		c.JoinWhenConnected(cfg.Room)
		c.Start(ctx)
		defer c.Stop()

		<-ctx.Done()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
