package service

import (
	"math/rand/v2"
	"time"

	"github.com/diegoclair/slack-idea-bot/internal/domain/contract"
)

// Options carries the behaviour settings shared by the services.
type Options struct {
	BotUserID          string
	AdminUserID        string
	TriggerWord        string
	IdeaChannelID      string
	DailyChannelID     string
	DadJokeProbability float64
	DadJokeDelay       time.Duration
	ReplyDelayMin      time.Duration
	ReplyDelayMax      time.Duration
	DailySchedule      string
	DailyTimezone      string
}

type Instance struct {
	Idea    *ideaService
	Command *commandService
	Daily   contract.DailyService
}

func NewInstance(dm contract.DataManager, slackClient contract.SlackClient, limiter contract.RateLimiter,
	tasks contract.TaskScheduler, opts Options) *Instance {
	rnd := globalRandom{}
	daily := newDaily(dm, slackClient, rnd, opts)

	return &Instance{
		Idea:    newIdea(dm, slackClient, limiter, tasks, rnd, opts),
		Command: newCommand(dm, slackClient, limiter, daily, opts),
		Daily:   daily,
	}
}

// randomizer is the source of every random choice the bot makes.
type randomizer interface {
	IntN(n int) int
	Int64N(n int64) int64
	Float64() float64
}

// globalRandom uses the math/rand/v2 top-level functions, which are safe for concurrent use.
type globalRandom struct{}

func (globalRandom) IntN(n int) int       { return rand.IntN(n) }
func (globalRandom) Int64N(n int64) int64 { return rand.Int64N(n) }
func (globalRandom) Float64() float64     { return rand.Float64() }

func pick[T any](rnd randomizer, items []T) T {
	return items[rnd.IntN(len(items))]
}
