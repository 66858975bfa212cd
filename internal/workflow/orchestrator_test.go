package workflow_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	_ "modernc.org/sqlite"

	"github.com/vmunix/reqarr/internal/acquisition"
	"github.com/vmunix/reqarr/internal/events"
	"github.com/vmunix/reqarr/internal/media"
	"github.com/vmunix/reqarr/internal/migrations"
	"github.com/vmunix/reqarr/internal/pvr"
	"github.com/vmunix/reqarr/internal/pvr/mocks"
	"github.com/vmunix/reqarr/internal/quota"
	"github.com/vmunix/reqarr/internal/release"
	"github.com/vmunix/reqarr/internal/request"
	"github.com/vmunix/reqarr/internal/user"
	"github.com/vmunix/reqarr/internal/workflow"
)

var (
	now   = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	alice = user.User{ID: "u-alice", Name: "alice"}
	admin = user.User{ID: "u-admin", Name: "root", IsAdmin: true}
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validSettings() pvr.Settings {
	return pvr.Settings{
		BaseURL:          "http://pvr",
		APIKey:           "key",
		QualityProfileID: 1,
		RootFolderPath:   "/media",
		MonitorStrategy:  "none",
	}
}

func testPolicy() quota.Policy {
	return quota.Policy{
		AllowRequests:  true,
		ApprovalMethod: quota.ApprovalQuota,
		WindowDays:     7,
		MovieLimit:     3,
		SeriesLimit:    3,
	}
}

type fixture struct {
	movies   *mocks.MockIntegration
	series   *mocks.MockSeriesIntegration
	requests *request.Manager
	store    *request.Store
	eventLog *events.EventLog
	orch     *workflow.Orchestrator
	notices  []workflow.Notice
}

type fixtureOpts struct {
	policy        quota.Policy
	movieSettings pvr.Settings
	maxRecovery   int
}

func newFixture(t *testing.T, opts ...func(*fixtureOpts)) *fixture {
	t.Helper()
	o := fixtureOpts{policy: testPolicy(), movieSettings: validSettings()}
	for _, fn := range opts {
		fn(&o)
	}

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Apply(db))

	users := user.NewStore(db)
	for _, u := range []user.User{alice, admin} {
		require.NoError(t, users.Add(context.Background(), &u))
	}

	ctrl := gomock.NewController(t)
	f := &fixture{
		movies:   mocks.NewMockIntegration(ctrl),
		series:   mocks.NewMockSeriesIntegration(ctrl),
		store:    request.NewStore(db),
		eventLog: events.NewEventLog(db),
	}
	bus := events.NewBus(f.eventLog, testLogger())
	t.Cleanup(func() { _ = bus.Close() })

	clock := func() time.Time { return now }
	f.requests = request.NewManager(f.store, bus, testLogger(), request.WithClock(clock))
	registrar := pvr.NewRegistrar(map[media.Kind]pvr.Binding{
		media.KindMovie:  {Name: "radarr", Integration: f.movies, Settings: o.movieSettings},
		media.KindSeries: {Name: "sonarr", Integration: f.series, Settings: validSettings()},
	}, testLogger())

	f.orch = workflow.New(workflow.Deps{
		Integrations: registrar,
		Quota:        quota.NewEvaluator(f.requests, o.policy, testLogger()),
		Acquirer:     acquisition.NewCoordinator(registrar, acquisition.Config{}, testLogger()),
		Requests:     f.requests,
		Bus:          bus,
	}, workflow.Config{MaxRecoveryAttempts: o.maxRecovery}, testLogger(), workflow.WithClock(clock))
	return f
}

func (f *fixture) Notify(n workflow.Notice) {
	f.notices = append(f.notices, n)
}

func (f *fixture) noticesOf(kind workflow.NoticeKind) []string {
	var msgs []string
	for _, n := range f.notices {
		if n.Kind == kind {
			msgs = append(msgs, n.Message)
		}
	}
	return msgs
}

func (f *fixture) persisted(t *testing.T) []*request.Request {
	t.Helper()
	all, err := f.store.List(context.Background(), request.Filter{})
	require.NoError(t, err)
	return all
}

func (f *fixture) seedRequests(t *testing.T, u user.User, n int) {
	t.Helper()
	for i := range n {
		_, err := f.requests.Create(context.Background(), u, request.NewRequest{
			UserID: u.ID, MediaID: int64(100 + i), Kind: media.KindMovie, Status: request.StatusApproved,
		})
		require.NoError(t, err)
	}
}

var matrix = &pvr.Item{ID: 12, ExternalID: 603, Title: "The Matrix", Kind: media.KindMovie}

var matrixReleases = []release.Candidate{
	{GUID: "low", IndexerID: 1, Indexer: "nzbgeek", Title: "The.Matrix.1999.720p.HDTV.x264-GRP"},
	{GUID: "best", IndexerID: 2, Indexer: "nzbgeek", Title: "The.Matrix.1999.1080p.BluRay.x264-GRP"},
}

func movieIntent() workflow.Intent {
	return workflow.Intent{Kind: media.KindMovie, MediaID: 603}
}

func TestRun_MovieAutoApproved(t *testing.T) {
	f := newFixture(t)
	f.movies.EXPECT().Lookup(gomock.Any(), int64(603)).Return(matrix, nil)
	f.movies.EXPECT().Releases(gomock.Any(), int64(12), nil).Return(matrixReleases, nil)
	f.movies.EXPECT().Grab(gomock.Any(), "best", 2).Return(true, nil)

	res, err := f.orch.Run(context.Background(), alice, movieIntent(), workflow.AnswerSheet{}, f)
	require.NoError(t, err)

	assert.Equal(t, workflow.StateDone, res.State)
	require.NotNil(t, res.Quota)
	assert.True(t, res.Quota.Allowed)
	assert.Equal(t, 3, res.Quota.Remaining)
	require.NotNil(t, res.Release)
	assert.Equal(t, "best", res.Release.GUID)
	assert.Equal(t, []workflow.State{
		workflow.StateSelectingTarget,
		workflow.StateEvaluatingQuota,
		workflow.StateAutoAcquiring,
		workflow.StateNotifying,
		workflow.StateDone,
	}, res.History)

	all := f.persisted(t)
	require.Len(t, all, 1, "exactly one request is persisted")
	assert.Equal(t, request.StatusApproved, all[0].Status)
	assert.Equal(t, alice.ID, all[0].UserID)
	assert.Equal(t, int64(603), all[0].MediaID)
	assert.Equal(t, res.Request.ID, all[0].ID)

	assert.Equal(t, []string{
		"(1/2) Checking for best releases...",
		"(2/2) Downloading best release...",
	}, f.noticesOf(workflow.NoticeProgress))
	assert.Equal(t, []string{"Process completed"}, f.noticesOf(workflow.NoticeSucceeded))

	raw, err := f.eventLog.ForEntity(context.Background(), events.EntityTitle, 603)
	require.NoError(t, err)
	require.Len(t, raw, 2)
	assert.Equal(t, events.EventAcquisitionStarted, raw[0].EventType)
	assert.Equal(t, events.EventAcquisitionSucceeded, raw[1].EventType)
}

func TestRun_AtLimitCreatesPendingWithoutGrab(t *testing.T) {
	f := newFixture(t)
	f.seedRequests(t, alice, 3)
	// Only the catalog lookup happens; any Releases or Grab call fails the test.
	f.movies.EXPECT().Lookup(gomock.Any(), int64(603)).Return(matrix, nil)

	res, err := f.orch.Run(context.Background(), alice, movieIntent(), workflow.AnswerSheet{}, f)
	require.NoError(t, err)

	assert.Equal(t, workflow.StateDone, res.State)
	assert.False(t, res.Quota.Allowed)
	assert.Equal(t, 0, res.Quota.Remaining)
	require.NotNil(t, res.Request)
	assert.Equal(t, request.StatusPending, res.Request.Status)
	assert.Contains(t, res.History, workflow.StateCreatingPendingRequest)
	assert.NotContains(t, res.History, workflow.StateAutoAcquiring)

	all := f.persisted(t)
	require.Len(t, all, 4)
	assert.Equal(t, request.StatusPending, all[3].Status)
	assert.Len(t, f.noticesOf(workflow.NoticePending), 1)
}

func TestRun_AdminBypassesQuota(t *testing.T) {
	f := newFixture(t)
	f.seedRequests(t, admin, 5)
	f.movies.EXPECT().Lookup(gomock.Any(), int64(603)).Return(matrix, nil)
	f.movies.EXPECT().Releases(gomock.Any(), int64(12), nil).Return(matrixReleases, nil)
	f.movies.EXPECT().Grab(gomock.Any(), "best", 2).Return(true, nil)

	res, err := f.orch.Run(context.Background(), admin, movieIntent(), workflow.AnswerSheet{}, f)
	require.NoError(t, err)

	assert.True(t, res.Quota.Allowed)
	assert.Equal(t, request.StatusApproved, res.Request.Status)
}

func TestRun_ManualApprovalGoesPending(t *testing.T) {
	f := newFixture(t, func(o *fixtureOpts) { o.policy.ApprovalMethod = quota.ApprovalManual })
	f.movies.EXPECT().Lookup(gomock.Any(), int64(603)).Return(matrix, nil)

	res, err := f.orch.Run(context.Background(), alice, movieIntent(), workflow.AnswerSheet{}, f)
	require.NoError(t, err)
	assert.Equal(t, request.StatusPending, res.Request.Status)
}

func TestRun_RequestsDisabled(t *testing.T) {
	f := newFixture(t, func(o *fixtureOpts) { o.policy.AllowRequests = false })

	_, err := f.orch.Run(context.Background(), alice, movieIntent(), workflow.AnswerSheet{}, f)
	assert.ErrorIs(t, err, workflow.ErrRequestsDisabled)
	assert.Empty(t, f.persisted(t))

	f.movies.EXPECT().Lookup(gomock.Any(), int64(603)).Return(matrix, nil)
	f.movies.EXPECT().Releases(gomock.Any(), int64(12), nil).Return(matrixReleases, nil)
	f.movies.EXPECT().Grab(gomock.Any(), "best", 2).Return(true, nil)
	res, err := f.orch.Run(context.Background(), admin, movieIntent(), workflow.AnswerSheet{}, f)
	require.NoError(t, err, "admins can always request")
	assert.Equal(t, workflow.StateDone, res.State)
}

func TestRun_RetryAfterFailure(t *testing.T) {
	f := newFixture(t)
	f.movies.EXPECT().Lookup(gomock.Any(), int64(603)).Return(matrix, nil)
	gomock.InOrder(
		f.movies.EXPECT().Releases(gomock.Any(), int64(12), nil).Return(nil, nil).Times(3),
		f.movies.EXPECT().Releases(gomock.Any(), int64(12), nil).Return(matrixReleases, nil),
		f.movies.EXPECT().Grab(gomock.Any(), "best", 2).Return(true, nil),
	)

	var asked []workflow.Topic
	prompt := workflow.PromptFunc(func(ctx context.Context, q workflow.Question) (workflow.Choice, error) {
		asked = append(asked, q.Topic)
		return workflow.AnswerSheet{workflow.TopicRetry: workflow.ChoiceRetry}.Ask(ctx, q)
	})

	res, err := f.orch.Run(context.Background(), alice, movieIntent(), prompt, f)
	require.NoError(t, err)

	assert.Equal(t, workflow.StateDone, res.State)
	assert.Equal(t, 2, res.Attempts)
	assert.Nil(t, res.Err)
	assert.Equal(t, []workflow.Topic{workflow.TopicConfirm, workflow.TopicRetry}, asked)
	assert.Equal(t, []string{"No releases found for this movie."}, f.noticesOf(workflow.NoticeFailed))
	assert.NotContains(t, f.noticesOf(workflow.NoticeProgress), "No releases found for this movie.")

	all := f.persisted(t)
	require.Len(t, all, 1, "the failed attempt creates no request")
	assert.Equal(t, request.StatusApproved, all[0].Status)
}

func TestRun_AbandonAfterGrabRejected(t *testing.T) {
	f := newFixture(t)
	f.movies.EXPECT().Lookup(gomock.Any(), int64(603)).Return(matrix, nil)
	f.movies.EXPECT().Releases(gomock.Any(), int64(12), nil).Return(matrixReleases, nil)
	f.movies.EXPECT().Grab(gomock.Any(), "best", 2).Return(false, nil)

	// The retry question defaults to cancel.
	res, err := f.orch.Run(context.Background(), alice, movieIntent(), workflow.AnswerSheet{}, f)
	require.NoError(t, err)

	assert.Equal(t, workflow.StateAbandoned, res.State)
	assert.Contains(t, res.Reason, "The.Matrix.1999.1080p.BluRay.x264-GRP")
	assert.ErrorIs(t, res.Err, acquisition.ErrGrabRejected)
	assert.Nil(t, res.Request)
	assert.Empty(t, f.persisted(t), "abandoning creates no request")

	raw, err := f.eventLog.Since(context.Background(), now.Add(-time.Hour), 0)
	require.NoError(t, err)
	var types []string
	for _, e := range raw {
		types = append(types, e.EventType)
	}
	assert.Contains(t, types, events.EventAcquisitionFailed)
	assert.Contains(t, types, events.EventWorkflowAbandoned)
}

func TestRun_RecoveryIsBounded(t *testing.T) {
	f := newFixture(t, func(o *fixtureOpts) { o.maxRecovery = 1 })
	f.movies.EXPECT().Lookup(gomock.Any(), int64(603)).Return(matrix, nil)
	f.movies.EXPECT().Releases(gomock.Any(), int64(12), nil).Return(matrixReleases, nil).Times(2)
	f.movies.EXPECT().Grab(gomock.Any(), "best", 2).Return(false, nil).Times(2)

	sheet := workflow.AnswerSheet{workflow.TopicRetry: workflow.ChoiceRetry}
	res, err := f.orch.Run(context.Background(), alice, movieIntent(), sheet, f)
	require.NoError(t, err)

	assert.Equal(t, workflow.StateAbandoned, res.State)
	assert.Equal(t, 2, res.Attempts)
	assert.Contains(t, res.Reason, "Giving up after 2 attempts")
}

func TestRun_UnavailableDuringAcquisitionIsRetryable(t *testing.T) {
	f := newFixture(t)
	unavailable := errors.Join(pvr.ErrIntegrationUnavailable, errors.New("connection refused"))
	f.movies.EXPECT().Lookup(gomock.Any(), int64(603)).Return(matrix, nil)
	f.movies.EXPECT().Releases(gomock.Any(), int64(12), nil).Return(nil, unavailable).Times(3)

	var asked []workflow.Topic
	prompt := workflow.PromptFunc(func(ctx context.Context, q workflow.Question) (workflow.Choice, error) {
		asked = append(asked, q.Topic)
		if q.Topic == workflow.TopicRetry {
			return workflow.Choice{}, workflow.ErrCancelled
		}
		return workflow.AnswerSheet{}.Ask(ctx, q)
	})

	res, err := f.orch.Run(context.Background(), alice, movieIntent(), prompt, f)
	require.NoError(t, err)
	assert.Equal(t, workflow.StateAbandoned, res.State)
	assert.Contains(t, asked, workflow.TopicRetry, "a retry is offered")
	assert.ErrorIs(t, res.Err, pvr.ErrIntegrationUnavailable)
}

func TestRun_ConfigErrorIsSurfaced(t *testing.T) {
	f := newFixture(t, func(o *fixtureOpts) { o.movieSettings.APIKey = "" })

	res, err := f.orch.Run(context.Background(), alice, movieIntent(), workflow.AnswerSheet{}, f)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, pvr.ErrIntegrationConfig)

	var cfgErr *pvr.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{"api_key"}, cfgErr.Missing)
	assert.Empty(t, f.persisted(t))
}

func TestRun_CancelAtConfirm(t *testing.T) {
	f := newFixture(t)
	f.movies.EXPECT().Lookup(gomock.Any(), int64(603)).Return(matrix, nil)

	res, err := f.orch.Run(context.Background(), alice, movieIntent(),
		workflow.AnswerSheet{workflow.TopicConfirm: workflow.ChoiceCancel}, f)
	require.NoError(t, err)

	assert.Equal(t, workflow.StateAbandoned, res.State)
	assert.Empty(t, f.persisted(t))
}

var breakingBad = &pvr.Item{
	ID: 3, ExternalID: 1396, Title: "Breaking Bad", Kind: media.KindSeries,
	Seasons: []pvr.Season{{Number: 0}, {Number: 1}, {Number: 2}},
}

func airedEpisodes(season, n int, withFile ...int) []pvr.Episode {
	eps := make([]pvr.Episode, 0, n)
	for i := 1; i <= n; i++ {
		eps = append(eps, pvr.Episode{
			ID:            int64(season*100 + i),
			SeasonNumber:  season,
			EpisodeNumber: i,
			Title:         "Episode",
			AirDate:       now.AddDate(-1, 0, i),
		})
	}
	for _, i := range withFile {
		eps[i-1].HasFile = true
	}
	return eps
}

func seriesIntent() workflow.Intent {
	return workflow.Intent{Kind: media.KindSeries, MediaID: 1396}
}

func TestRun_SeriesWholeSeason(t *testing.T) {
	f := newFixture(t)
	f.series.EXPECT().Lookup(gomock.Any(), int64(1396)).Return(breakingBad, nil)
	f.series.EXPECT().SeasonCompleted(gomock.Any(), int64(3), 1).Return(true, nil)
	f.series.EXPECT().SeasonCompleted(gomock.Any(), int64(3), 2).Return(false, errors.New("indexer hiccup"))
	f.series.EXPECT().Episodes(gomock.Any(), int64(3), 2).Return(airedEpisodes(2, 13), nil)
	f.series.EXPECT().Releases(gomock.Any(), int64(3), media.IntPtr(2)).Return([]release.Candidate{
		{GUID: "pack", IndexerID: 9, Title: "Breaking.Bad.S02.1080p.BluRay.x264-GRP"},
		{GUID: "ep", IndexerID: 9, Title: "Breaking.Bad.S02E01.1080p.BluRay.x264-GRP"},
	}, nil)
	f.series.EXPECT().Grab(gomock.Any(), "pack", 9).Return(true, nil)

	res, err := f.orch.Run(context.Background(), alice, seriesIntent(),
		workflow.AnswerSheet{workflow.TopicSeason: "2"}, f)
	require.NoError(t, err)

	assert.Equal(t, workflow.StateDone, res.State)
	assert.Equal(t, []workflow.SeasonCheck{
		{Season: 1, Status: workflow.SeasonCompleted},
		{Season: 2, Status: workflow.SeasonNotCompleted, Err: res.Seasons[1].Err},
	}, res.Seasons, "a failed check counts as not completed")
	assert.Error(t, res.Seasons[1].Err)
	assert.Equal(t, media.ModeWholeTitle, res.Target.Mode)
	assert.Equal(t, 13, res.Target.ExpectedEpisodes)

	require.NotNil(t, res.Request)
	assert.Equal(t, request.StatusApproved, res.Request.Status)
	require.NotNil(t, res.Request.Season)
	assert.Equal(t, 2, *res.Request.Season)
	assert.Nil(t, res.Request.Episode)
}

func TestRun_SeriesSingleEpisode(t *testing.T) {
	f := newFixture(t)
	f.series.EXPECT().Lookup(gomock.Any(), int64(1396)).Return(breakingBad, nil)
	f.series.EXPECT().SeasonCompleted(gomock.Any(), int64(3), gomock.Any()).Return(false, nil).Times(2)
	f.series.EXPECT().Episodes(gomock.Any(), int64(3), 1).Return(airedEpisodes(1, 7, 1, 2), nil)
	gomock.InOrder(
		f.series.EXPECT().MonitorEpisode(gomock.Any(), int64(103)).Return(nil),
		f.series.EXPECT().SearchEpisode(gomock.Any(), int64(103)).Return(nil),
	)

	season, episode := 1, 3
	res, err := f.orch.Run(context.Background(), alice, seriesIntent(),
		workflow.NewAnswerSheet(&season, &episode, "", false), f)
	require.NoError(t, err)

	assert.Equal(t, workflow.StateDone, res.State)
	assert.Equal(t, media.ModeSingleEpisode, res.Target.Mode)
	require.NotNil(t, res.Request)
	require.NotNil(t, res.Request.Episode)
	assert.Equal(t, 3, *res.Request.Episode)
	assert.Equal(t, []string{
		"(1/2) Monitoring episode 3 of season 1...",
		"(2/2) Searching for episode 3...",
	}, f.noticesOf(workflow.NoticeProgress))
}

func TestRun_SeriesMonitorSeasonPending(t *testing.T) {
	f := newFixture(t)
	f.seedRequests(t, alice, 3)
	f.series.EXPECT().Lookup(gomock.Any(), int64(1396)).Return(breakingBad, nil)
	f.series.EXPECT().SeasonCompleted(gomock.Any(), int64(3), gomock.Any()).Return(false, nil).Times(2)
	// Second half of the season has not aired yet.
	eps := airedEpisodes(2, 4)
	eps[3].AirDate = now.Add(24 * time.Hour)
	f.series.EXPECT().Episodes(gomock.Any(), int64(3), 2).Return(eps, nil)

	season := 2
	res, err := f.orch.Run(context.Background(), alice, seriesIntent(),
		workflow.NewAnswerSheet(&season, nil, workflow.ChoiceMonitorSeason, false), f)
	require.NoError(t, err)

	assert.Equal(t, media.ModeMonitorSeason, res.Target.Mode)
	require.NotNil(t, res.Request)
	assert.Equal(t, request.StatusPending, res.Request.Status)
	assert.Equal(t, 2, *res.Request.Season)
}

func TestRun_SeriesWithoutSeasonAnswerFails(t *testing.T) {
	f := newFixture(t)
	f.series.EXPECT().Lookup(gomock.Any(), int64(1396)).Return(breakingBad, nil)
	f.series.EXPECT().SeasonCompleted(gomock.Any(), int64(3), gomock.Any()).Return(false, nil).Times(2)

	_, err := f.orch.Run(context.Background(), alice, seriesIntent(), workflow.AnswerSheet{}, f)
	assert.ErrorIs(t, err, workflow.ErrNoAnswer)
	assert.Empty(t, f.persisted(t))
}
