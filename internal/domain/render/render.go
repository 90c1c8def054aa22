// Package render turns query results into Slack Block Kit messages.
package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/diegoclair/slack-idea-bot/internal/domain/category"
	"github.com/diegoclair/slack-idea-bot/internal/domain/entity"
	"github.com/slack-go/slack"
)

const (
	// Slack rejects section text above 3000 characters and messages above 50 blocks.
	maxSectionChars = 2900
	maxBlocks       = 50
)

func Error(message string) *slack.Msg {
	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         fmt.Sprintf("❌ %s", message),
	}
}

func Ephemeral(text string) *slack.Msg {
	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         text,
	}
}

func InChannel(text string) *slack.Msg {
	return &slack.Msg{
		ResponseType: slack.ResponseTypeInChannel,
		Text:         text,
	}
}

func Stats(stats *entity.Stats) *slack.Msg {
	blocks := []slack.Block{
		header("📊 Idea Stats"),
		section(fmt.Sprintf("*Total ideas:* %d", stats.Total)),
		section("*By category*\n" + categoryLines(stats.PerCategory)),
		section("*Top contributors*\n" + authorLines(stats.TopAuthors)),
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeInChannel,
		Text:         fmt.Sprintf("Total ideas: %d", stats.Total),
		Blocks:       slack.Blocks{BlockSet: blocks},
	}
}

func Leaderboard(entries []*entity.LeaderboardEntry) *slack.Msg {
	if len(entries) == 0 {
		return InChannel("🏆 No ideas yet, the leaderboard is empty. Start a message with the trigger word to submit one!")
	}

	var b strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&b, "%s *%s* with %d %s\n", medal(i), e.AuthorName, e.Submissions, plural(e.Submissions, "idea", "ideas"))
		fmt.Fprintf(&b, "      _%s_ · last %s · %.1f replies per idea\n",
			strings.Join(e.Categories, ", "),
			e.LastSubmittedAt.Format("2 Jan 2006"),
			e.AvgFollowups,
		)
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeInChannel,
		Text:         fmt.Sprintf("Idea leaderboard: %s leads with %d", entries[0].AuthorName, entries[0].Submissions),
		Blocks: slack.Blocks{BlockSet: []slack.Block{
			header("🏆 Idea Leaderboard"),
			section(b.String()),
		}},
	}
}

// Ideas renders every submission followed by the aggregate breakdowns.
func Ideas(submissions []*entity.Submission, stats *entity.Stats) *slack.Msg {
	blocks := []slack.Block{
		header(fmt.Sprintf("💡 All ideas (%d)", stats.Total)),
		section("*By category*\n" + categoryLines(stats.PerCategory)),
		section("*Top contributors*\n" + authorLines(stats.TopAuthors)),
		slack.NewDividerBlock(),
	}

	lines := make([]string, 0, len(submissions))
	for _, s := range submissions {
		lines = append(lines, fmt.Sprintf("• %s :%s: *%s* (%s): %s",
			s.CreatedAt.Format("2006-01-02"),
			category.IconFor(s.Category),
			s.AuthorName,
			s.Category,
			s.Text,
		))
	}

	chunks := chunkLines(lines, maxSectionChars)
	room := maxBlocks - len(blocks) - 1
	shown := 0
	for i, chunk := range chunks {
		if i >= room {
			break
		}
		blocks = append(blocks, section(chunk.text))
		shown += chunk.lines
	}
	if shown < len(lines) {
		blocks = append(blocks, contextText(fmt.Sprintf("…and %d more not shown", len(lines)-shown)))
	}

	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         fmt.Sprintf("All ideas: %d", stats.Total),
		Blocks:       slack.Blocks{BlockSet: blocks},
	}
}

func ReminderStatus(enabled bool, schedule, timezone string, next time.Time) *slack.Msg {
	state := "🔕 *disabled*"
	if enabled {
		state = "🔔 *enabled*"
	}

	text := fmt.Sprintf("Daily reminder is %s\nSchedule: `%s` (%s)", state, schedule, timezone)
	if enabled && !next.IsZero() {
		text += fmt.Sprintf("\nNext post: %s", next.Format("Mon 2 Jan 15:04 MST"))
	}
	return Ephemeral(text)
}

func ReminderToggled(enabled bool) *slack.Msg {
	if enabled {
		return Ephemeral("✅ Daily reminder enabled")
	}
	return Ephemeral("✅ Daily reminder disabled")
}

func categoryLines(counts []entity.CategoryCount) string {
	if len(counts) == 0 {
		return "_none yet_"
	}
	var b strings.Builder
	for _, c := range counts {
		fmt.Fprintf(&b, ":%s: %s: %d\n", category.IconFor(c.Category), c.Category, c.Count)
	}
	return b.String()
}

func authorLines(authors []entity.AuthorCount) string {
	if len(authors) == 0 {
		return "_none yet_"
	}
	var b strings.Builder
	for i, a := range authors {
		fmt.Fprintf(&b, "%s %s: %d\n", medal(i), a.AuthorName, a.Count)
	}
	return b.String()
}

func medal(rank int) string {
	switch rank {
	case 0:
		return "🥇"
	case 1:
		return "🥈"
	case 2:
		return "🥉"
	default:
		return fmt.Sprintf("%d.", rank+1)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

type chunk struct {
	text  string
	lines int
}

// chunkLines packs lines into blocks of at most limit characters. A single
// longer line is truncated.
func chunkLines(lines []string, limit int) []chunk {
	var (
		chunks []chunk
		cur    strings.Builder
		count  int
	)
	flush := func() {
		if count > 0 {
			chunks = append(chunks, chunk{text: cur.String(), lines: count})
			cur.Reset()
			count = 0
		}
	}

	for _, line := range lines {
		if len(line) > limit {
			line = truncate(line, limit)
		}
		if cur.Len()+len(line)+1 > limit {
			flush()
		}
		cur.WriteString(line)
		cur.WriteString("\n")
		count++
	}
	flush()
	return chunks
}

func truncate(s string, limit int) string {
	cut := limit - len("…")
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}

func header(text string) slack.Block {
	return slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, text, true, false))
}

func section(text string) slack.Block {
	return slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil)
}

func contextText(text string) slack.Block {
	return slack.NewContextBlock("", slack.NewTextBlockObject(slack.MarkdownType, text, false, false))
}
