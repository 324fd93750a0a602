package main

import (
	"fmt"
	"time"

	"github.com/EtafCisky/sillytavernDIARY/trigger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newAutoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auto",
		Short: "Configure the automatic diary trigger",
	}
	cmd.AddCommand(newAutoEnableCmd())
	cmd.AddCommand(newAutoDisableCmd())
	cmd.AddCommand(newAutoStatusCmd())
	return cmd
}

func newAutoEnableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enable",
		Short: "Enable automatic diaries, measuring the first interval from now",
		RunE: func(cmd *cobra.Command, args []string) error {
			interval, _ := cmd.Flags().GetInt("interval")
			if !cmd.Flags().Changed("interval") {
				settings, err := loadAutoSettings()
				if err != nil {
					return err
				}
				interval = settings.Interval
				if interval <= 0 {
					interval = viper.GetInt("auto.interval")
				}
			}
			if interval <= 0 {
				return fmt.Errorf("interval must be positive, got %d", interval)
			}

			session, err := sessionFromViper()
			if err != nil {
				return err
			}
			st, err := trigger.LoadState(session)
			if err != nil {
				return err
			}
			// Re-enabling counts from the current message, not from whatever
			// floor a previous run left behind.
			trigger.Enable(&st, session.CharacterName(), session.Len())
			if err := trigger.SaveState(session, st); err != nil {
				return err
			}
			if err := saveAutoSettings(autoSettings{Enabled: true, Interval: interval}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Automatic diaries enabled: every %d messages (floor %d)\n", interval, st.LastTriggerFloor)
			return nil
		},
	}
	cmd.Flags().Int("interval", 0, "Messages between automatic diaries.")
	return cmd
}

func newAutoDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable",
		Short: "Disable automatic diaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadAutoSettings()
			if err != nil {
				return err
			}
			settings.Enabled = false
			if err := saveAutoSettings(settings); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Automatic diaries disabled")
			return nil
		},
	}
}

func newAutoStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the trigger state for the current chat",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadAutoSettings()
			if err != nil {
				return err
			}
			session, err := sessionFromViper()
			if err != nil {
				return err
			}
			st, err := trigger.LoadState(session)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !settings.Enabled {
				_, _ = fmt.Fprintln(out, "Automatic diaries: disabled")
				return nil
			}
			newSince := session.Len() - st.LastTriggerFloor
			remaining := settings.Interval - newSince
			if remaining < 0 {
				remaining = 0
			}
			_, _ = fmt.Fprintf(out, "Automatic diaries: every %d messages\n", settings.Interval)
			_, _ = fmt.Fprintf(out, "Messages since last diary: %d (next in %d)\n", newSince, remaining)
			if st.LastTriggerTime > 0 {
				since := time.Since(time.UnixMilli(st.LastTriggerTime))
				if since < trigger.CooldownWindow {
					_, _ = fmt.Fprintf(out, "Cooldown: %s left\n", (trigger.CooldownWindow - since).Round(time.Second))
				}
			}
			return nil
		},
	}
}
