package reminders

import (
	"fmt"
	"strings"

	"github.com/disgoorg/snowflake/v2"
)

const jumpLinkBase = "https://discord.com/channels"

// JumpLink builds the link to a message. A nil guild means a direct message.
func JumpLink(guildID *snowflake.ID, channelID snowflake.ID, messageID snowflake.ID) string {
	guild := "@me"
	if guildID != nil {
		guild = guildID.String()
	}
	return fmt.Sprintf("%s/%s/%s/%s", jumpLinkBase, guild, channelID, messageID)
}

// ParseJumpLink reads guild, channel and message ids from the last three path
// segments of a jump link.
func ParseJumpLink(link string) (guildID snowflake.ID, channelID snowflake.ID, messageID snowflake.ID, err error) {
	parts := strings.Split(strings.TrimRight(link, "/"), "/")
	if len(parts) < 3 {
		return 0, 0, 0, fmt.Errorf("malformed jump link %q", link)
	}

	tail := parts[len(parts)-3:]
	if guildID, err = snowflake.Parse(tail[0]); err != nil {
		return 0, 0, 0, fmt.Errorf("jump link guild %q: %w", tail[0], err)
	}
	if channelID, err = snowflake.Parse(tail[1]); err != nil {
		return 0, 0, 0, fmt.Errorf("jump link channel %q: %w", tail[1], err)
	}
	if messageID, err = snowflake.Parse(tail[2]); err != nil {
		return 0, 0, 0, fmt.Errorf("jump link message %q: %w", tail[2], err)
	}
	return guildID, channelID, messageID, nil
}
