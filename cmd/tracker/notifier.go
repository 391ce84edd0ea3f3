package main

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

// Notifier delivers reminder notifications to the caregiver.
type Notifier interface {
	RequestPermission(context.Context) (bool, error)
	Show(ctx context.Context, title, body string) error
}

type discordNotifier struct {
	cl        *discordgo.Session
	channelID string
}

func NewDiscordNotifier(cl *discordgo.Session, channelID string) *discordNotifier {
	return &discordNotifier{
		cl:        cl,
		channelID: channelID,
	}
}

// RequestPermission reports whether the bot may post in the notify channel.
func (n *discordNotifier) RequestPermission(ctx context.Context) (bool, error) {
	if n.cl.State == nil || n.cl.State.User == nil {
		return false, nil
	}
	perms, err := n.cl.UserChannelPermissions(n.cl.State.User.ID, n.channelID, discordgo.WithContext(ctx))
	if err != nil {
		return false, err
	}
	return perms&discordgo.PermissionSendMessages != 0, nil
}

func (n *discordNotifier) Show(ctx context.Context, title, body string) error {
	_, err := n.cl.ChannelMessageSendEmbed(n.channelID, &discordgo.MessageEmbed{
		Title:       title,
		Description: body,
		Color:       int(ColorYellow),
	}, discordgo.WithContext(ctx))
	return err
}

type logNotifier struct {
	l *log.Logger
}

func NewLogNotifier(l *log.Logger) *logNotifier {
	return &logNotifier{l: l}
}

func (n *logNotifier) RequestPermission(context.Context) (bool, error) {
	return true, nil
}

func (n *logNotifier) Show(_ context.Context, title, body string) error {
	n.l.Info(title, "body", body)
	return nil
}
