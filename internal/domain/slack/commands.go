package slack

import (
	"fmt"
	"strings"
)

type CommandType string

const (
	CmdStats          CommandType = "stats"
	CmdHelp           CommandType = "help"
	CmdLeaderboard    CommandType = "leaderboard"
	CmdMotivate       CommandType = "motivate"
	CmdToggleReminder CommandType = "toggle-reminder"
	CmdReminderStatus CommandType = "reminder-status"
	CmdShowIdeas      CommandType = "show-ideas"
)

type Command struct {
	Type CommandType
	Args []string
}

// AdminOnly reports whether the command is restricted to the administrator.
func (c *Command) AdminOnly() bool {
	switch c.Type {
	case CmdMotivate, CmdToggleReminder, CmdShowIdeas:
		return true
	}
	return false
}

func ParseCommand(text string) (*Command, error) {
	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) == 0 {
		return &Command{Type: CmdHelp}, nil
	}

	cmd := &Command{}
	if len(parts) > 1 {
		cmd.Args = parts[1:]
	}

	switch strings.ToLower(parts[0]) {
	case "stats", "stat":
		cmd.Type = CmdStats
	case "help":
		cmd.Type = CmdHelp
	case "leaderboard", "top":
		cmd.Type = CmdLeaderboard
	case "motivate", "motivate-now":
		cmd.Type = CmdMotivate
	case "toggle-reminder", "toggle":
		cmd.Type = CmdToggleReminder
	case "reminder-status", "status":
		cmd.Type = CmdReminderStatus
	case "show-ideas", "ideas":
		cmd.Type = CmdShowIdeas
	default:
		return nil, fmt.Errorf("unknown command: %s", parts[0])
	}

	return cmd, nil
}

func GetHelpText(triggerWord string) string {
	return `*How to submit an idea:*
Start a message with ` + "`" + triggerWord + "`" + `, for example: ` + "`" + triggerWord + ": automate the weekly report`" + `
I'll categorize it, react, and reply in the thread.

*Commands:*
• ` + "`/ideabot stats`" + ` - Total ideas, breakdown per category and top contributors
• ` + "`/ideabot leaderboard`" + ` - Top 10 idea contributors
• ` + "`/ideabot reminder-status`" + ` - Show whether the daily reminder is on
• ` + "`/ideabot help`" + ` - Show this message

*Admin:*
• ` + "`/ideabot motivate`" + ` - Post the daily motivation message now
• ` + "`/ideabot toggle-reminder`" + ` - Turn the daily reminder on or off
• ` + "`/ideabot show-ideas`" + ` - List every submitted idea`
}
