package main

import (
	"fmt"
	"strings"

	"github.com/EtafCisky/sillytavernDIARY/internal/clifmt"
	"github.com/spf13/cobra"
)

func newBookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Browse the diary book",
	}
	cmd.AddCommand(newBookCharactersCmd())
	cmd.AddCommand(newBookListCmd())
	cmd.AddCommand(newBookShowCmd())
	cmd.AddCommand(newBookDeleteCmd())
	return cmd
}

func newBookCharactersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "characters",
		Short: "List characters that have diaries, with counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			authors, err := booksFromViper().Authors()
			if err != nil {
				return err
			}
			rows := make([]clifmt.Row, 0, len(authors))
			for _, a := range authors {
				rows = append(rows, clifmt.Row{Name: a.Name, Detail: fmt.Sprintf("%d diaries", a.Count)})
			}
			clifmt.Table{
				Title:        "Characters",
				NameHeader:   "CHARACTER",
				DetailHeader: "DIARIES",
				Empty:        "No diaries yet.",
				Rows:         rows,
			}.Print(cmd.OutOrStdout())
			return nil
		},
	}
}

func newBookListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <character>",
		Short: "List a character's diaries, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			author := strings.TrimSpace(args[0])
			infos, err := booksFromViper().ListByAuthor(author)
			if err != nil {
				return err
			}
			rows := make([]clifmt.Row, 0, len(infos))
			for _, info := range infos {
				rows = append(rows, clifmt.Row{
					Name:   info.Time,
					Detail: fmt.Sprintf("%s (uid %s)", info.Title, info.UID),
				})
			}
			clifmt.Table{
				Title:        author,
				NameHeader:   "TIME",
				DetailHeader: "TITLE",
				Empty:        fmt.Sprintf("No diaries for %s.", author),
				Rows:         rows,
			}.Print(cmd.OutOrStdout())
			return nil
		},
	}
}

func newBookShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <uid>",
		Short: "Show one diary entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := booksFromViper().Get(strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Title:  %s\n", d.Title)
			_, _ = fmt.Fprintf(out, "Time:   %s\n", d.Time)
			_, _ = fmt.Fprintf(out, "Author: %s\n", d.Author)
			_, _ = fmt.Fprintf(out, "\n%s\n", d.Content)
			return nil
		},
	}
}

func newBookDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <uid>",
		Short: "Delete one diary entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid := strings.TrimSpace(args[0])
			if err := booksFromViper().Delete(cmd.Context(), uid); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", uid)
			return nil
		},
	}
}
