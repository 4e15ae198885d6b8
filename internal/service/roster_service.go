package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/clansdown/KingShotMinisterScheduler/internal/dto"
	"github.com/clansdown/KingShotMinisterScheduler/internal/models"
	"github.com/clansdown/KingShotMinisterScheduler/internal/roster"
	"github.com/clansdown/KingShotMinisterScheduler/internal/timeparse"
	apperrors "github.com/clansdown/KingShotMinisterScheduler/pkg/errors"
)

// RosterStore is the repository surface RosterService needs.
type RosterStore interface {
	ListAll(ctx context.Context) ([]models.RosterMember, error)
	List(ctx context.Context, page, pageSize int) ([]models.RosterMember, *models.Pagination, error)
	Upsert(ctx context.Context, member *models.RosterMember) error
	Delete(ctx context.Context, id string) error
}

type RosterService struct {
	repo     RosterStore
	logger   *zap.Logger
	validate *validator.Validate
}

func NewRosterService(repo RosterStore, logger *zap.Logger, validate *validator.Validate) *RosterService {
	return &RosterService{repo: repo, logger: logger, validate: validate}
}

// Import parses a raw roster document and upserts every clean line. Skipped
// lines are reported as diagnostics, never as a request failure.
func (s *RosterService) Import(ctx context.Context, req *dto.ImportRosterRequest) (*dto.ImportSummary, []models.Diagnostic, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.ErrValidation.Code, apperrors.ErrValidation.Status, "roster content is required")
	}

	result := roster.ParseRoster(req.Content)

	imported := 0
	for i := range result.Members {
		if err := s.repo.Upsert(ctx, &result.Members[i]); err != nil {
			return nil, nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to store roster member")
		}
		imported++
	}

	s.logger.Info("roster imported",
		zap.Int("imported", imported),
		zap.Int("skipped", len(result.Diagnostics)))

	return &dto.ImportSummary{Imported: imported, Skipped: len(result.Diagnostics)}, result.Diagnostics, nil
}

// List returns one page of roster members.
func (s *RosterService) List(ctx context.Context, page, pageSize int) ([]models.RosterMember, *models.Pagination, error) {
	members, pagination, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to list roster")
	}
	return members, pagination, nil
}

// Add upserts a single member from explicit fields.
func (s *RosterService) Add(ctx context.Context, req *dto.AddMemberRequest) (*models.RosterMember, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrValidation.Code, apperrors.ErrValidation.Status, "invalid member payload")
	}

	if (req.StartTime == "") != (req.EndTime == "") {
		return nil, apperrors.Clone(apperrors.ErrValidation, "start and end time must be provided together")
	}
	if req.StartTime == "" && req.AllTimes == "" {
		return nil, apperrors.Clone(apperrors.ErrValidation, "at least one time source is required")
	}
	if req.StartTime != "" {
		if _, ok := timeparse.NormalizeClockTime(req.StartTime); !ok {
			return nil, apperrors.Clone(apperrors.ErrValidation, "unrecognised start time")
		}
		if _, ok := timeparse.NormalizeClockTime(req.EndTime); !ok {
			return nil, apperrors.Clone(apperrors.ErrValidation, "unrecognised end time")
		}
	}

	member := &models.RosterMember{
		Alliance:     req.Alliance,
		Name:         req.Name,
		Speedup:      req.Speedup,
		UsedFor:      req.UsedFor,
		Construction: req.Construction,
		Research:     req.Research,
		Training:     req.Training,
		TrueGold:     req.TrueGold,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		AllTimes:     req.AllTimes,
	}

	if err := s.repo.Upsert(ctx, member); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to store roster member")
	}

	s.logger.Info("roster member stored",
		zap.String("alliance", member.Alliance),
		zap.String("name", member.Name))
	return member, nil
}

// Delete removes a member by id.
func (s *RosterService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.Clone(apperrors.ErrNotFound, "roster member not found")
		}
		return apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to delete roster member")
	}
	return nil
}
