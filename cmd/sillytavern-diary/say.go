package main

import (
	"fmt"
	"strings"

	"github.com/EtafCisky/sillytavernDIARY/llm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "say <message>",
		Short: "Append a user message to the chat and optionally get a reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return fmt.Errorf("empty message")
			}
			noReply, _ := cmd.Flags().GetBool("no-reply")
			character, _ := cmd.Flags().GetString("character")

			session, err := sessionFromViper()
			if err != nil {
				return err
			}
			if strings.TrimSpace(character) != "" {
				if err := session.SetCharacterName(character); err != nil {
					return err
				}
			}
			if err := session.AppendUser(text); err != nil {
				return err
			}
			if noReply {
				return nil
			}

			messages := make([]llm.Message, 0, session.Len())
			for _, m := range session.Messages() {
				role := "assistant"
				if m.IsUser {
					role = "user"
				}
				messages = append(messages, llm.Message{Role: role, Content: m.Mes})
			}
			result, err := clientFromViper().Chat(cmd.Context(), llm.Request{
				Model:    viper.GetString("llm.model"),
				Messages: messages,
			})
			if err != nil {
				return err
			}
			if err := session.AppendCharacter(result.Text); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), result.Text)
			return nil
		},
	}
	cmd.Flags().Bool("no-reply", false, "Only append the message, skip generation.")
	cmd.Flags().String("character", "", "Set the session character name before appending.")
	return cmd
}
