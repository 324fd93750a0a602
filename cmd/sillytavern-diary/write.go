package main

import (
	"fmt"

	"github.com/EtafCisky/sillytavernDIARY/engine"
	"github.com/spf13/cobra"
)

func newWriteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write",
		Short: "Generate a diary from the current conversation and save it",
		RunE: func(cmd *cobra.Command, args []string) error {
			author, _ := cmd.Flags().GetString("author")

			eng, _, err := engineFromViper()
			if err != nil {
				return err
			}
			res, err := eng.WriteDiary(cmd.Context(), author)
			if err != nil {
				return err
			}
			printDiaryResult(cmd, res)
			return nil
		},
	}
	cmd.Flags().String("author", "", "Author tag for the diary (defaults to the session character).")
	return cmd
}

func newRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record",
		Short: "Save the latest chat message as a diary, without generating",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := engineFromViper()
			if err != nil {
				return err
			}
			res, err := eng.RecordDiary(cmd.Context())
			if err != nil {
				return err
			}
			printDiaryResult(cmd, res)
			return nil
		},
	}
}

func printDiaryResult(cmd *cobra.Command, res *engine.Result) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Saved diary %q (%s), uid %s\n", res.Title, res.Time, res.UID)
	if !res.PruneOK {
		_, _ = fmt.Fprintf(out, "Warning: chat cleanup removed %d message(s), expected 2\n", res.PrunedCount)
	}
}
