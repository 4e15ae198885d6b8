package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clansdown/KingShotMinisterScheduler/internal/dto"
	"github.com/clansdown/KingShotMinisterScheduler/internal/models"
	"github.com/clansdown/KingShotMinisterScheduler/pkg/config"
	apperrors "github.com/clansdown/KingShotMinisterScheduler/pkg/errors"
)

type stubRunStore struct {
	created []*models.ScheduleRun
	latest  *models.ScheduleRun
}

func (s *stubRunStore) CreateVersioned(_ context.Context, run *models.ScheduleRun) error {
	run.Version = len(s.created) + 1
	run.ID = "run-" + strconv.Itoa(run.Version)
	run.CreatedAt = time.Now().UTC()
	s.created = append(s.created, run)
	s.latest = run
	return nil
}

func (s *stubRunStore) FindByID(_ context.Context, id string) (*models.ScheduleRun, error) {
	for _, run := range s.created {
		if run.ID == id {
			return run, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubRunStore) Latest(context.Context) (*models.ScheduleRun, error) {
	if s.latest == nil {
		return nil, sql.ErrNoRows
	}
	return s.latest, nil
}

func (s *stubRunStore) List(context.Context) ([]models.ScheduleRun, error) {
	out := make([]models.ScheduleRun, 0, len(s.created))
	for i := len(s.created) - 1; i >= 0; i-- {
		out = append(out, *s.created[i])
	}
	return out, nil
}

type stubRosterReader struct {
	members []models.RosterMember
}

func (s *stubRosterReader) ListAll(context.Context) ([]models.RosterMember, error) {
	return s.members, nil
}

func testSchedulerDefaults() config.SchedulerConfig {
	return config.SchedulerConfig{
		MinHours:            20,
		ConstructionKingDay: 1,
		ResearchKingDay:     2,
		RunCacheTTL:         time.Minute,
		QueueBuffer:         2,
	}
}

func newRunServiceFixture(t *testing.T, members []models.RosterMember) (*RunService, *stubRunStore) {
	t.Helper()
	store := &stubRunStore{}
	svc := NewRunService(store, &stubRosterReader{members: members}, nil,
		NewMetricsService(), zap.NewNop(), validator.New(), testSchedulerDefaults())

	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)
	t.Cleanup(func() {
		cancel()
		svc.Stop()
	})
	return svc, store
}

func sampleMembers() []models.RosterMember {
	return []models.RosterMember{
		{Alliance: "AAA", Name: "Kael", Construction: 30, Research: 25, AllTimes: "9-17"},
		{Alliance: "AAA", Name: "Mira", Training: 40, AllTimes: "20-23"},
	}
}

func TestRunServiceTriggerPersistsVersionedRun(t *testing.T) {
	svc, store := newRunServiceFixture(t, sampleMembers())

	run, err := svc.Trigger(context.Background(), &dto.TriggerRunRequest{})
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, 1, run.Version)
	assert.Equal(t, models.RunStatusCompleted, run.Status)
	require.Len(t, store.created, 1)

	var snapshot models.RunSnapshot
	require.NoError(t, json.Unmarshal(run.Snapshot, &snapshot))
	assert.Equal(t, 20.0, snapshot.Config.MinHours)
	assert.Equal(t, 5, snapshot.SpilloverDay)
	assert.NotEmpty(t, snapshot.Appointments)
	assert.Len(t, snapshot.RawCandidates, 2)
	assert.Len(t, snapshot.Candidates, 2)
}

func TestRunServiceTriggerAppliesOverrides(t *testing.T) {
	svc, _ := newRunServiceFixture(t, sampleMembers())

	run, err := svc.Trigger(context.Background(), &dto.TriggerRunRequest{
		MinHours:            10,
		ConstructionKingDay: 2,
		ResearchKingDay:     5,
	})
	require.NoError(t, err)

	var cfg models.RunConfig
	require.NoError(t, json.Unmarshal(run.Config, &cfg))
	assert.Equal(t, 10.0, cfg.MinHours)
	assert.Equal(t, 2, cfg.ConstructionKingDay)
	assert.Equal(t, 5, cfg.ResearchKingDay)
	assert.Equal(t, 1, cfg.SpilloverDay())
}

func TestRunServiceTriggerRejectsInvalidDay(t *testing.T) {
	svc, _ := newRunServiceFixture(t, sampleMembers())

	_, err := svc.Trigger(context.Background(), &dto.TriggerRunRequest{ConstructionKingDay: 3})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrValidation.Code, apperrors.FromError(err).Code)
}

func TestRunServiceTriggerEmptyRoster(t *testing.T) {
	svc, store := newRunServiceFixture(t, nil)

	_, err := svc.Trigger(context.Background(), &dto.TriggerRunRequest{})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrEmptyRoster.Code, apperrors.FromError(err).Code)
	assert.Empty(t, store.created)
}

func TestRunServiceRunsAreSerialised(t *testing.T) {
	svc, store := newRunServiceFixture(t, sampleMembers())

	for i := 1; i <= 3; i++ {
		run, err := svc.Trigger(context.Background(), &dto.TriggerRunRequest{})
		require.NoError(t, err)
		assert.Equal(t, i, run.Version)
	}
	assert.Len(t, store.created, 3)
}

func TestRunServiceLatestFallsBackToStore(t *testing.T) {
	svc, _ := newRunServiceFixture(t, sampleMembers())

	_, err := svc.Latest(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrNotFound.Code, apperrors.FromError(err).Code)

	created, err := svc.Trigger(context.Background(), &dto.TriggerRunRequest{})
	require.NoError(t, err)

	latest, err := svc.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, created.ID, latest.ID)
}

func TestRunServiceSnapshotDecodes(t *testing.T) {
	svc, _ := newRunServiceFixture(t, sampleMembers())

	run, err := svc.Trigger(context.Background(), &dto.TriggerRunRequest{})
	require.NoError(t, err)

	snapshot, err := svc.Snapshot(context.Background(), run.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, snapshot.Appointments)
}

func TestRunServiceGetMissing(t *testing.T) {
	svc, _ := newRunServiceFixture(t, sampleMembers())

	_, err := svc.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrNotFound.Code, apperrors.FromError(err).Code)
}

func TestRunServiceList(t *testing.T) {
	svc, _ := newRunServiceFixture(t, sampleMembers())

	_, err := svc.Trigger(context.Background(), &dto.TriggerRunRequest{})
	require.NoError(t, err)
	_, err = svc.Trigger(context.Background(), &dto.TriggerRunRequest{})
	require.NoError(t, err)

	summaries, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, 2, summaries[0].Version)
}
