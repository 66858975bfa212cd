package workflow

import (
	"context"
	"fmt"
	"strconv"
)

// Topic identifies what a Question asks about.
type Topic string

const (
	TopicSeason      Topic = "season"
	TopicEpisodeMode Topic = "episode_mode"
	TopicEpisode     Topic = "episode"
	TopicConfirm     Topic = "confirm"
	TopicRetry       Topic = "retry"
)

// Choice keys used by the confirm, retry and episode-mode questions.
const (
	ChoiceConfirm       = "confirm"
	ChoiceRetry         = "retry"
	ChoiceCancel        = "cancel"
	ChoiceMonitorSeason = "monitor"
	ChoiceSingleEpisode = "episode"
)

// Choice is one selectable answer.
type Choice struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Question is what the workflow needs the user to decide.
type Question struct {
	Topic   Topic    `json:"topic"`
	Header  string   `json:"header"`
	Message string   `json:"message"`
	Choices []Choice `json:"choices"`
	Default string   `json:"default,omitempty"`
}

// Find returns the choice with the given key.
func (q Question) Find(key string) (Choice, bool) {
	for _, c := range q.Choices {
		if c.Key == key {
			return c, true
		}
	}
	return Choice{}, false
}

// Prompter asks the user to pick one of a question's choices.
// Returning ErrCancelled abandons the workflow.
type Prompter interface {
	Ask(ctx context.Context, q Question) (Choice, error)
}

// PromptFunc adapts a function to the Prompter interface.
type PromptFunc func(ctx context.Context, q Question) (Choice, error)

// Ask calls f.
func (f PromptFunc) Ask(ctx context.Context, q Question) (Choice, error) {
	return f(ctx, q)
}

// AnswerSheet answers questions from a fixed map of topic to choice key.
// Questions without an entry take their default; questions without a default fail.
type AnswerSheet map[Topic]string

// Ask implements Prompter.
func (a AnswerSheet) Ask(_ context.Context, q Question) (Choice, error) {
	key, ok := a[q.Topic]
	if !ok {
		key = q.Default
	}
	if key == "" {
		return Choice{}, fmt.Errorf("%w for %s", ErrNoAnswer, q.Topic)
	}
	c, ok := q.Find(key)
	if !ok && key == ChoiceCancel {
		return Choice{}, ErrCancelled
	}
	if !ok {
		return Choice{}, fmt.Errorf("%w: %q is not a choice for %s", ErrNoAnswer, key, q.Topic)
	}
	return c, nil
}

// NewAnswerSheet builds a sheet for a non-interactive run. A nil season or episode
// leaves that question to its default.
func NewAnswerSheet(season, episode *int, mode string, retry bool) AnswerSheet {
	a := AnswerSheet{TopicConfirm: ChoiceConfirm}
	if season != nil {
		a[TopicSeason] = strconv.Itoa(*season)
	}
	if episode != nil {
		a[TopicEpisode] = strconv.Itoa(*episode)
		a[TopicEpisodeMode] = ChoiceSingleEpisode
	}
	if mode != "" {
		a[TopicEpisodeMode] = mode
	}
	if retry {
		a[TopicRetry] = ChoiceRetry
	}
	return a
}
