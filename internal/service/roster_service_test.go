package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clansdown/KingShotMinisterScheduler/internal/dto"
	"github.com/clansdown/KingShotMinisterScheduler/internal/models"
	apperrors "github.com/clansdown/KingShotMinisterScheduler/pkg/errors"
)

type stubRosterStore struct {
	members  map[string]models.RosterMember
	upserted []models.RosterMember
}

func newStubRosterStore() *stubRosterStore {
	return &stubRosterStore{members: make(map[string]models.RosterMember)}
}

func (s *stubRosterStore) ListAll(context.Context) ([]models.RosterMember, error) {
	return s.upserted, nil
}

func (s *stubRosterStore) List(context.Context, int, int) ([]models.RosterMember, *models.Pagination, error) {
	return s.upserted, &models.Pagination{Page: 1, PageSize: 50, TotalCount: len(s.upserted)}, nil
}

func (s *stubRosterStore) Upsert(_ context.Context, member *models.RosterMember) error {
	if member.ID == "" {
		member.ID = member.Alliance + "/" + member.Name
	}
	s.members[member.ID] = *member
	s.upserted = append(s.upserted, *member)
	return nil
}

func (s *stubRosterStore) Delete(_ context.Context, id string) error {
	if _, ok := s.members[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.members, id)
	return nil
}

func newRosterServiceFixture() (*RosterService, *stubRosterStore) {
	store := newStubRosterStore()
	return NewRosterService(store, zap.NewNop(), validator.New()), store
}

func TestRosterServiceImport(t *testing.T) {
	svc, store := newRosterServiceFixture()

	content := strings.Join([]string{
		"1|\tKael\tAAA\t120\tconstruction\t30\t20\t10\t5\t09:00\t17:00\t",
		"not a roster line",
		"2|\tMira\tBBB\t0\tresearch\t0\t40\t0\t2\t\t\t20 to 23",
	}, "\n")

	summary, diagnostics, err := svc.Import(context.Background(), &dto.ImportRosterRequest{Content: content})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, 2, diagnostics[0].Line)
	assert.Len(t, store.upserted, 2)
}

func TestRosterServiceImportRequiresContent(t *testing.T) {
	svc, _ := newRosterServiceFixture()

	_, _, err := svc.Import(context.Background(), &dto.ImportRosterRequest{})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrValidation.Code, apperrors.FromError(err).Code)
}

func TestRosterServiceAdd(t *testing.T) {
	svc, store := newRosterServiceFixture()

	member, err := svc.Add(context.Background(), &dto.AddMemberRequest{
		Alliance: "AAA",
		Name:     "Kael",
		AllTimes: "9 to 17",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, member.ID)
	assert.Len(t, store.upserted, 1)
}

func TestRosterServiceAddValidatesTimeSources(t *testing.T) {
	svc, _ := newRosterServiceFixture()

	_, err := svc.Add(context.Background(), &dto.AddMemberRequest{
		Alliance:  "AAA",
		Name:      "Kael",
		StartTime: "09:00",
	})
	require.Error(t, err)
	assert.Contains(t, apperrors.FromError(err).Message, "together")

	_, err = svc.Add(context.Background(), &dto.AddMemberRequest{
		Alliance: "AAA",
		Name:     "Kael",
	})
	require.Error(t, err)

	_, err = svc.Add(context.Background(), &dto.AddMemberRequest{
		Alliance:  "AAA",
		Name:      "Kael",
		StartTime: "whenever",
		EndTime:   "17:00",
	})
	require.Error(t, err)
}

func TestRosterServiceDeleteMissing(t *testing.T) {
	svc, _ := newRosterServiceFixture()

	err := svc.Delete(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrNotFound.Code, apperrors.FromError(err).Code)
}

func TestRosterServiceDelete(t *testing.T) {
	svc, store := newRosterServiceFixture()

	member, err := svc.Add(context.Background(), &dto.AddMemberRequest{
		Alliance: "AAA", Name: "Kael", AllTimes: "9-17",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), member.ID))
	assert.Empty(t, store.members)
}
