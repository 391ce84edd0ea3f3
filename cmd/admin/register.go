package main

import (
	"fmt"

	nurture "github.com/bill2712/nursing-tracker"
	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"
)

var guildID string

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Overwrite the bot's slash commands",
	Args:  cobra.NoArgs,
	RunE:  runRegister,
}

func init() {
	registerCmd.Flags().StringVar(&guildID, "guild", "", "register for one guild only (instant, useful in development)")
}

func runRegister(cmd *cobra.Command, args []string) error {
	cfg, err := nurture.LoadConfig(isProd)
	if err != nil {
		return err
	}

	bot, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return err
	}
	if err := bot.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}
	defer bot.Close() //nolint

	app, err := bot.Application("@me")
	if err != nil {
		return err
	}

	created, err := bot.ApplicationCommandBulkOverwrite(app.ID, guildID, nurture.Commands)
	if err != nil {
		return err
	}
	for _, c := range created {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", c.Name, c.Description)
	}
	return nil
}
