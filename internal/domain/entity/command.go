package entity

// CommandRequest carries what a slash command handler needs from the invocation.
type CommandRequest struct {
	Text      string
	UserID    string
	ChannelID string
}
