package main

import (
	"fmt"
	"strings"

	"github.com/EtafCisky/sillytavernDIARY/internal/clifmt"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newPresetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Browse and select generation presets",
	}
	cmd.AddCommand(newPresetListCmd())
	cmd.AddCommand(newPresetShowCmd())
	cmd.AddCommand(newPresetUseCmd())
	cmd.AddCommand(newPresetClearCmd())
	return cmd
}

func newPresetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List presets, marking the selected one",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := presetManagerFromViper()
			names, err := m.List()
			if err != nil {
				return err
			}
			selected := m.SelectedName()
			rows := make([]clifmt.Row, 0, len(names))
			for _, name := range names {
				detail := ""
				if name == selected {
					detail = "selected"
				}
				rows = append(rows, clifmt.Row{Name: name, Detail: detail})
			}
			clifmt.Table{
				Title:        "Presets",
				NameHeader:   "PRESET",
				DetailHeader: "STATUS",
				Empty:        "No presets.",
				Rows:         rows,
			}.Print(cmd.OutOrStdout())
			return nil
		},
	}
}

func newPresetShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print one preset document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := presetManagerFromViper().Load(strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			b, err := yaml.Marshal(doc)
			if err != nil {
				return err
			}
			_, _ = cmd.OutOrStdout().Write(b)
			return nil
		},
	}
}

func newPresetUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Select a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if err := presetManagerFromViper().Select(name); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Selected %s\n", name)
			return nil
		},
	}
}

func newPresetClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the preset selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return presetManagerFromViper().Clear()
		},
	}
}
