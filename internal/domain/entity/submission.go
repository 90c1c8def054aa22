package entity

import "time"

// AnonymousName is stored when no usable name can be resolved for an author.
const AnonymousName = "Anonymous"

type Submission struct {
	ID              int64
	AuthorID        string
	AuthorName      string
	Text            string
	Category        string
	SourceMessageID string
	SourceChannelID string
	CreatedAt       time.Time
}

type FollowupKind string

const (
	FollowupResponse FollowupKind = "response"
	FollowupDadJoke  FollowupKind = "dad_joke"
)

// Followup is a bot-emitted reply posted in a submission's thread.
type Followup struct {
	ID           int64
	SubmissionID int64
	Kind         FollowupKind
	Text         string
	CreatedAt    time.Time
}

// IncomingMessage is the transport-independent shape of a channel message.
type IncomingMessage struct {
	UserID    string
	Text      string
	ChannelID string
	MessageTS string
	IsBot     bool
}
