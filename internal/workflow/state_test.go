package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_Transitions(t *testing.T) {
	assert.True(t, StateSelectingTarget.CanTransitionTo(StateEvaluatingQuota))
	assert.True(t, StateEvaluatingQuota.CanTransitionTo(StateAutoAcquiring))
	assert.True(t, StateEvaluatingQuota.CanTransitionTo(StateCreatingPendingRequest))
	assert.True(t, StateAutoAcquiring.CanTransitionTo(StateErrorRecovery))
	assert.True(t, StateErrorRecovery.CanTransitionTo(StateAutoAcquiring))
	assert.True(t, StateErrorRecovery.CanTransitionTo(StateAbandoned))

	assert.False(t, StateCreatingPendingRequest.CanTransitionTo(StateErrorRecovery))
	assert.False(t, StateSelectingTarget.CanTransitionTo(StateAutoAcquiring), "quota is always evaluated first")
	assert.False(t, StateDone.CanTransitionTo(StateSelectingTarget))

	assert.True(t, StateDone.IsTerminal())
	assert.True(t, StateAbandoned.IsTerminal())
	assert.False(t, StateErrorRecovery.IsTerminal())
}

func TestAnswerSheet(t *testing.T) {
	ctx := context.Background()
	confirm := Question{
		Topic:   TopicConfirm,
		Choices: []Choice{{Key: ChoiceConfirm}, {Key: ChoiceCancel}},
		Default: ChoiceConfirm,
	}
	season := Question{
		Topic:   TopicSeason,
		Choices: []Choice{{Key: "1"}, {Key: "2"}},
	}

	c, err := AnswerSheet{}.Ask(ctx, confirm)
	require.NoError(t, err)
	assert.Equal(t, ChoiceConfirm, c.Key, "falls back to the default")

	_, err = AnswerSheet{}.Ask(ctx, season)
	assert.ErrorIs(t, err, ErrNoAnswer)

	c, err = AnswerSheet{TopicSeason: "2"}.Ask(ctx, season)
	require.NoError(t, err)
	assert.Equal(t, "2", c.Key)

	_, err = AnswerSheet{TopicSeason: "9"}.Ask(ctx, season)
	assert.ErrorIs(t, err, ErrNoAnswer)

	_, err = AnswerSheet{TopicSeason: ChoiceCancel}.Ask(ctx, season)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestNewAnswerSheet(t *testing.T) {
	season, episode := 2, 5
	a := NewAnswerSheet(&season, &episode, "", true)

	assert.Equal(t, AnswerSheet{
		TopicConfirm:     ChoiceConfirm,
		TopicSeason:      "2",
		TopicEpisode:     "5",
		TopicEpisodeMode: ChoiceSingleEpisode,
		TopicRetry:       ChoiceRetry,
	}, a)

	assert.Equal(t, AnswerSheet{TopicConfirm: ChoiceConfirm, TopicEpisodeMode: ChoiceMonitorSeason},
		NewAnswerSheet(nil, nil, ChoiceMonitorSeason, false))
}
