package render

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/diegoclair/slack-idea-bot/internal/domain/entity"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockText concatenates every text a message shows.
func blockText(msg *slack.Msg) string {
	var b strings.Builder
	b.WriteString(msg.Text)
	for _, block := range msg.Blocks.BlockSet {
		switch bl := block.(type) {
		case *slack.HeaderBlock:
			b.WriteString("\n" + bl.Text.Text)
		case *slack.SectionBlock:
			b.WriteString("\n" + bl.Text.Text)
		case *slack.ContextBlock:
			for _, el := range bl.ContextElements.Elements {
				if txt, ok := el.(*slack.TextBlockObject); ok {
					b.WriteString("\n" + txt.Text)
				}
			}
		}
	}
	return b.String()
}

func TestStats_Empty(t *testing.T) {
	msg := Stats(&entity.Stats{})

	assert.Equal(t, slack.ResponseTypeInChannel, msg.ResponseType)
	text := blockText(msg)
	assert.Contains(t, text, "*Total ideas:* 0")
	assert.Equal(t, 2, strings.Count(text, "_none yet_"))
}

func TestStats(t *testing.T) {
	msg := Stats(&entity.Stats{
		Total: 5,
		PerCategory: []entity.CategoryCount{
			{Category: "AI & Automation", Count: 3},
			{Category: "Cost Saving", Count: 2},
		},
		TopAuthors: []entity.AuthorCount{
			{AuthorID: "U1", AuthorName: "Budi", Count: 4},
			{AuthorID: "U2", AuthorName: "Sari", Count: 1},
		},
	})

	text := blockText(msg)
	assert.Contains(t, text, "*Total ideas:* 5")
	assert.Contains(t, text, ":robot_face: AI & Automation: 3")
	assert.Contains(t, text, ":moneybag: Cost Saving: 2")
	assert.Contains(t, text, "🥇 Budi: 4")
	assert.Contains(t, text, "🥈 Sari: 1")
}

func TestLeaderboard(t *testing.T) {
	empty := Leaderboard(nil)
	assert.Contains(t, empty.Text, "leaderboard is empty")

	msg := Leaderboard([]*entity.LeaderboardEntry{
		{
			AuthorName:      "Budi",
			Submissions:     3,
			Categories:      []string{"AI & Automation", "Cost Saving"},
			LastSubmittedAt: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
			AvgFollowups:    1.5,
		},
		{AuthorName: "Sari", Submissions: 1, Categories: []string{"Team & Culture"}},
	})

	text := blockText(msg)
	assert.Contains(t, text, "🥇 *Budi* with 3 ideas")
	assert.Contains(t, text, "_AI & Automation, Cost Saving_ · last 2 Jan 2024 · 1.5 replies per idea")
	assert.Contains(t, text, "🥈 *Sari* with 1 idea\n")
}

func TestIdeas(t *testing.T) {
	submissions := []*entity.Submission{
		{AuthorName: "Budi", Category: "AI & Automation", Text: "Ide: AI chatbot", CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	}
	stats := &entity.Stats{
		Total:       1,
		PerCategory: []entity.CategoryCount{{Category: "AI & Automation", Count: 1}},
		TopAuthors:  []entity.AuthorCount{{AuthorName: "Budi", Count: 1}},
	}

	msg := Ideas(submissions, stats)

	assert.Equal(t, slack.ResponseTypeEphemeral, msg.ResponseType)
	text := blockText(msg)
	assert.Contains(t, text, "All ideas (1)")
	assert.Contains(t, text, "• 2024-01-02 :robot_face: *Budi* (AI & Automation): Ide: AI chatbot")
}

func TestIdeas_RespectsBlockLimit(t *testing.T) {
	var submissions []*entity.Submission
	for i := 0; i < 2000; i++ {
		submissions = append(submissions, &entity.Submission{
			AuthorName: "Budi",
			Category:   "Miscellaneous",
			Text:       fmt.Sprintf("Ide %d: %s", i, strings.Repeat("x", 80)),
		})
	}

	msg := Ideas(submissions, &entity.Stats{Total: len(submissions)})

	require.LessOrEqual(t, len(msg.Blocks.BlockSet), maxBlocks)
	assert.Contains(t, blockText(msg), "more not shown")
	for _, block := range msg.Blocks.BlockSet {
		if s, ok := block.(*slack.SectionBlock); ok {
			assert.LessOrEqual(t, len(s.Text.Text), maxSectionChars)
		}
	}
}

func TestChunkLines(t *testing.T) {
	chunks := chunkLines([]string{"aaaa", "bbbb", "cccc"}, 10)

	require.Len(t, chunks, 2)
	assert.Equal(t, "aaaa\nbbbb\n", chunks[0].text)
	assert.Equal(t, 2, chunks[0].lines)
	assert.Equal(t, "cccc\n", chunks[1].text)

	long := chunkLines([]string{strings.Repeat("é", 20)}, 12)
	require.Len(t, long, 1)
	assert.True(t, strings.HasSuffix(long[0].text, "…\n"))
	assert.LessOrEqual(t, len(long[0].text), 13)
}

func TestReminderStatus(t *testing.T) {
	next := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

	on := ReminderStatus(true, "0 9 * * *", "UTC", next)
	assert.Contains(t, on.Text, "*enabled*")
	assert.Contains(t, on.Text, "Next post: Tue 2 Jan 09:00 UTC")

	off := ReminderStatus(false, "0 9 * * *", "UTC", next)
	assert.Contains(t, off.Text, "*disabled*")
	assert.NotContains(t, off.Text, "Next post")
}

func TestError(t *testing.T) {
	msg := Error("nope")
	assert.Equal(t, slack.ResponseTypeEphemeral, msg.ResponseType)
	assert.Equal(t, "❌ nope", msg.Text)
}
