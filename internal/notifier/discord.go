package notifier

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/commonground/community-events-api/internal/models"
)

type Notifier interface {
	AnnounceEvent(event models.Event, owner models.User) error
}

// DiscordNotifier posts newly created events to a community channel.
// Announcement failures are never allowed to fail the creating request;
// callers log and move on.
type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(botToken, channelID string) (*DiscordNotifier, error) {
	if botToken == "" {
		return nil, fmt.Errorf("discord bot token is empty")
	}
	if channelID == "" {
		return nil, fmt.Errorf("discord announce channel ID is empty")
	}

	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}, nil
}

func (n *DiscordNotifier) AnnounceEvent(event models.Event, owner models.User) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}

	message := fmt.Sprintf("📅 **New Community Event**\n**%s** (%s)\n**When:** %s\n**Where:** %s\n**Code:** %s\n**Hosted by:** %s",
		event.Name,
		event.Category,
		event.Date.Format("2006-01-02 15:04"),
		event.Location,
		event.Code,
		owner.Username,
	)

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	return err
}
