package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EtafCisky/sillytavernDIARY/chat"
	"github.com/EtafCisky/sillytavernDIARY/engine"
	"github.com/EtafCisky/sillytavernDIARY/trigger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the automatic diary daemon over the configured chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := loggerFromViper()
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			eng, session, err := engineFromViper()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			gate := trigger.NewGate()
			ticker := time.NewTicker(trigger.TickInterval)
			defer ticker.Stop()

			logger.Info("serve_started",
				"session", viper.GetString("chat.session"),
				"tick", trigger.TickInterval.String(),
			)
			for {
				select {
				case <-ctx.Done():
					logger.Info("serve_stopped")
					return nil
				case <-ticker.C:
				}
				runAutoTick(ctx, logger, eng, session, gate)
			}
		},
	}
}

// runAutoTick is one gate evaluation. Settings and chat are re-read every tick
// so `auto enable` and external chat writes take effect on a running daemon.
func runAutoTick(ctx context.Context, logger *slog.Logger, eng *engine.Engine, session *chat.Session, gate *trigger.Gate) {
	settings, err := loadAutoSettings()
	if err != nil {
		logger.Warn("auto_settings_unreadable", "error", err.Error())
		return
	}
	if err := session.Reload(); err != nil {
		logger.Warn("chat_reload_failed", "error", err.Error())
		return
	}
	st, err := trigger.LoadState(session)
	if err != nil {
		logger.Warn("trigger_state_unreadable", "error", err.Error())
		return
	}

	d := gate.Check(trigger.Config{Interval: settings.effectiveInterval()}, st, session.Len(), eng.Busy())
	if !d.Fire {
		logger.Debug("auto_tick_skipped", "reason", d.Reason)
		return
	}

	// The cooldown opens before the write sequence starts, so a slow or
	// failing write cannot double-fire on the next tick.
	gate.Stamp(&st)
	if err := trigger.SaveState(session, st); err != nil {
		logger.Warn("trigger_state_save_failed", "error", err.Error())
		return
	}

	character := st.CharacterName
	if character == "" {
		character = session.CharacterName()
	}
	logger.Info("auto_diary_fired", "floor", d.Floor, "character", character)

	if _, err := eng.AutoDiary(ctx, character, d.Floor); err != nil {
		logger.Warn("auto_diary_failed", "error", err.Error())
	}
}
