package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/reqarr/internal/media"
)

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{"movie", Request{UserID: "u", MediaID: 603, Kind: media.KindMovie}, false},
		{"series season", Request{UserID: "u", MediaID: 1399, Kind: media.KindSeries, Season: media.IntPtr(1)}, false},
		{"series episode", Request{UserID: "u", MediaID: 1399, Kind: media.KindSeries, Season: media.IntPtr(1), Episode: media.IntPtr(3)}, false},
		{"movie with season", Request{UserID: "u", MediaID: 603, Kind: media.KindMovie, Season: media.IntPtr(1)}, true},
		{"episode without season", Request{UserID: "u", MediaID: 1399, Kind: media.KindSeries, Episode: media.IntPtr(3)}, true},
		{"unknown kind", Request{UserID: "u", MediaID: 1, Kind: "music"}, true},
		{"no requester", Request{MediaID: 603, Kind: media.KindMovie}, true},
		{"no media", Request{UserID: "u", Kind: media.KindMovie}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRequest)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStatus_Transitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusApproved))
	assert.True(t, StatusPending.CanTransitionTo(StatusDeclined))
	assert.False(t, StatusApproved.CanTransitionTo(StatusPending))
	assert.False(t, StatusDeclined.CanTransitionTo(StatusApproved))
	assert.False(t, StatusApproved.CanTransitionTo(StatusDeclined))

	assert.False(t, StatusPending.IsTerminal())
	assert.True(t, StatusApproved.IsTerminal())
	assert.True(t, StatusDeclined.IsTerminal())
}

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus("approved")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got)

	got, err = ParseStatus(" Declined ")
	require.NoError(t, err)
	assert.Equal(t, StatusDeclined, got)

	_, err = ParseStatus("done")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
