package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/clansdown/KingShotMinisterScheduler/internal/dto"
	"github.com/clansdown/KingShotMinisterScheduler/internal/models"
	"github.com/clansdown/KingShotMinisterScheduler/internal/roster"
	"github.com/clansdown/KingShotMinisterScheduler/internal/scheduler"
	"github.com/clansdown/KingShotMinisterScheduler/pkg/config"
	apperrors "github.com/clansdown/KingShotMinisterScheduler/pkg/errors"
	"github.com/clansdown/KingShotMinisterScheduler/pkg/jobs"
)

const latestRunCacheKey = "schedule:run:latest"

// RunStore is the repository surface RunService needs.
type RunStore interface {
	CreateVersioned(ctx context.Context, run *models.ScheduleRun) error
	FindByID(ctx context.Context, id string) (*models.ScheduleRun, error)
	Latest(ctx context.Context) (*models.ScheduleRun, error)
	List(ctx context.Context) ([]models.ScheduleRun, error)
}

// RosterReader is the roster surface RunService needs.
type RosterReader interface {
	ListAll(ctx context.Context) ([]models.RosterMember, error)
}

// runRequest travels through the job queue; the worker fills Result before
// signalling completion, and Submit blocks until then.
type runRequest struct {
	Config models.RunConfig
	Result *models.ScheduleRun
}

// RunService executes scheduling runs through a single-writer queue so two
// runs can never interleave, and persists each outcome as a new version.
type RunService struct {
	runs     RunStore
	roster   RosterReader
	cache    *redis.Client
	queue    *jobs.Queue
	metrics  *MetricsService
	logger   *zap.Logger
	validate *validator.Validate
	defaults config.SchedulerConfig
}

func NewRunService(
	runs RunStore,
	rosterRepo RosterReader,
	cache *redis.Client,
	metrics *MetricsService,
	logger *zap.Logger,
	validate *validator.Validate,
	defaults config.SchedulerConfig,
) *RunService {
	s := &RunService{
		runs:     runs,
		roster:   rosterRepo,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
		validate: validate,
		defaults: defaults,
	}
	s.queue = jobs.NewQueue("schedule-runs", s.execute, jobs.QueueConfig{
		BufferSize: defaults.QueueBuffer,
		Logger:     logger,
	})
	return s
}

// Start begins the run worker.
func (s *RunService) Start(ctx context.Context) { s.queue.Start(ctx) }

// Stop drains the run worker.
func (s *RunService) Stop() { s.queue.Stop() }

// Trigger enqueues a run and blocks until it completes. Request fields left
// at zero fall back to the configured defaults.
func (s *RunService) Trigger(ctx context.Context, req *dto.TriggerRunRequest) (*models.ScheduleRun, error) {
	if req == nil {
		req = &dto.TriggerRunRequest{}
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrValidation.Code, apperrors.ErrValidation.Status, "invalid run request")
	}

	cfg := models.RunConfig{
		MinHours:            req.MinHours,
		ConstructionKingDay: req.ConstructionKingDay,
		ResearchKingDay:     req.ResearchKingDay,
	}
	if cfg.MinHours == 0 {
		cfg.MinHours = s.defaults.MinHours
	}
	if cfg.ConstructionKingDay == 0 {
		cfg.ConstructionKingDay = s.defaults.ConstructionKingDay
	}
	if cfg.ResearchKingDay == 0 {
		cfg.ResearchKingDay = s.defaults.ResearchKingDay
	}
	if err := s.validate.Struct(cfg); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrValidation.Code, apperrors.ErrValidation.Status, "invalid run configuration")
	}

	request := &runRequest{Config: cfg}
	job := jobs.Job{Type: "schedule-run", Payload: request}

	if err := s.queue.Submit(ctx, job); err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, apperrors.Wrap(err, apperrors.ErrQueueUnavailable.Code, apperrors.ErrQueueUnavailable.Status, apperrors.ErrQueueUnavailable.Message)
	}

	return request.Result, nil
}

// execute is the queue handler: one invocation at a time, by construction.
func (s *RunService) execute(ctx context.Context, job jobs.Job) error {
	request, ok := job.Payload.(*runRequest)
	if !ok {
		return apperrors.Clone(apperrors.ErrInternal, "unexpected job payload")
	}

	started := time.Now()

	members, err := s.roster.ListAll(ctx)
	if err != nil {
		s.metrics.RunsTotal.WithLabelValues("failed").Inc()
		return apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to load roster")
	}
	if len(members) == 0 {
		s.metrics.RunsTotal.WithLabelValues("rejected").Inc()
		return apperrors.ErrEmptyRoster
	}

	raw, allocated := roster.BuildCandidates(members)

	snapshot := scheduler.NewRunState(request.Config, allocated, s.logger).Run()
	snapshot.RawCandidates = raw

	run, err := s.persist(ctx, request.Config, snapshot)
	if err != nil {
		s.metrics.RunsTotal.WithLabelValues("failed").Inc()
		return err
	}

	s.metrics.ObserveRun("completed", time.Since(started).Seconds(),
		len(members), len(snapshot.Appointments), len(snapshot.Waiting), len(snapshot.FilteredOut))

	s.logger.Info("schedule run completed",
		zap.String("run_id", run.ID),
		zap.Int("version", run.Version),
		zap.Int("roster", len(members)),
		zap.Int("appointments", len(snapshot.Appointments)),
		zap.Int("waiting", len(snapshot.Waiting)),
		zap.Int("filtered_out", len(snapshot.FilteredOut)),
		zap.Duration("took", time.Since(started)))

	request.Result = run
	return nil
}

func (s *RunService) persist(ctx context.Context, cfg models.RunConfig, snapshot *models.RunSnapshot) (*models.ScheduleRun, error) {
	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to encode run config")
	}
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to encode run snapshot")
	}

	run := &models.ScheduleRun{
		Status:   models.RunStatusCompleted,
		Config:   types.JSONText(configJSON),
		Snapshot: types.JSONText(snapshotJSON),
	}
	if err := s.runs.CreateVersioned(ctx, run); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to persist run")
	}

	s.cacheLatest(ctx, run)
	return run, nil
}

// Get loads one run by id.
func (s *RunService) Get(ctx context.Context, id string) (*models.ScheduleRun, error) {
	run, err := s.runs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Clone(apperrors.ErrNotFound, "run not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to load run")
	}
	return run, nil
}

// Latest returns the most recent run, served from cache when possible.
func (s *RunService) Latest(ctx context.Context) (*models.ScheduleRun, error) {
	if s.cache != nil {
		payload, err := s.cache.Get(ctx, latestRunCacheKey).Bytes()
		if err == nil {
			var run models.ScheduleRun
			if err := json.Unmarshal(payload, &run); err == nil {
				return &run, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("latest run cache read failed", zap.Error(err))
		}
	}

	run, err := s.runs.Latest(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Clone(apperrors.ErrNotFound, "no runs recorded yet")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to load latest run")
	}

	s.cacheLatest(ctx, run)
	return run, nil
}

// List returns run summaries, newest version first.
func (s *RunService) List(ctx context.Context) ([]dto.RunSummary, error) {
	runs, err := s.runs.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to list runs")
	}

	summaries := make([]dto.RunSummary, 0, len(runs))
	for _, run := range runs {
		summaries = append(summaries, dto.RunSummary{
			ID:        run.ID,
			Version:   run.Version,
			Status:    string(run.Status),
			CreatedAt: run.CreatedAt,
		})
	}
	return summaries, nil
}

// Snapshot decodes the stored snapshot of a run.
func (s *RunService) Snapshot(ctx context.Context, id string) (*models.RunSnapshot, error) {
	run, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var snapshot models.RunSnapshot
	if err := json.Unmarshal(run.Snapshot, &snapshot); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to decode run snapshot")
	}
	return &snapshot, nil
}

func (s *RunService) cacheLatest(ctx context.Context, run *models.ScheduleRun) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(run)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, latestRunCacheKey, payload, s.defaults.RunCacheTTL).Err(); err != nil {
		s.logger.Warn("latest run cache write failed", zap.Error(err))
	}
}
