package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/clansdown/KingShotMinisterScheduler/internal/models"
	"github.com/clansdown/KingShotMinisterScheduler/internal/timeparse"
	apperrors "github.com/clansdown/KingShotMinisterScheduler/pkg/errors"
	"github.com/clansdown/KingShotMinisterScheduler/pkg/export"
)

// ExportFormat is the requested export encoding.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportResult carries the rendered document plus response metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// SnapshotLoader is the run surface ExportService needs.
type SnapshotLoader interface {
	Snapshot(ctx context.Context, id string) (*models.RunSnapshot, error)
}

type ExportService struct {
	runs   SnapshotLoader
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

func NewExportService(runs SnapshotLoader, logger *zap.Logger) *ExportService {
	return &ExportService{
		runs:   runs,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// ExportRun renders the schedule of one run as CSV or PDF: every appointment
// ordered day / role / slot, followed by the waiting lists. A day of zero
// exports the full week; otherwise only that rotation day is included.
func (s *ExportService) ExportRun(ctx context.Context, runID string, format ExportFormat, day int) (*ExportResult, error) {
	snapshot, err := s.runs.Snapshot(ctx, runID)
	if err != nil {
		return nil, err
	}

	dataset := buildRunDataset(snapshot, day)

	switch format {
	case FormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("schedule-run-%s.csv", runID),
		}, nil
	case FormatPDF:
		content, err := s.pdf.Render(dataset, "Buff Appointment Schedule")
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("schedule-run-%s.pdf", runID),
		}, nil
	default:
		return nil, apperrors.Clone(apperrors.ErrValidation, "unsupported export format")
	}
}

func buildRunDataset(snapshot *models.RunSnapshot, day int) export.Dataset {
	dataset := export.Dataset{
		Headers: []string{"Day", "Role", "Slot", "Alliance", "Name", "Value", "TrueGold"},
	}

	for _, appt := range snapshot.Appointments {
		if day != 0 && appt.Day != day {
			continue
		}
		slot := fmt.Sprintf("%s-%s",
			timeparse.FormatMinutes(appt.SlotStart),
			timeparse.FormatMinutes(appt.SlotEnd))
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Day":      strconv.Itoa(appt.Day),
			"Role":     string(appt.Role),
			"Slot":     slot,
			"Alliance": appt.Member.Alliance,
			"Name":     appt.Member.Name,
			"Value":    appt.Value,
			"TrueGold": strconv.FormatFloat(appt.TrueGold, 'f', -1, 64),
		})
	}

	for _, entry := range snapshot.Waiting {
		if day != 0 && entry.Day != day {
			continue
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Day":      strconv.Itoa(entry.Day),
			"Role":     "WAITING",
			"Slot":     entry.Availability,
			"Alliance": entry.Member.Alliance,
			"Name":     entry.Member.Name,
			"Value":    waitingValue(entry),
			"TrueGold": strconv.FormatFloat(entry.TrueGold, 'f', -1, 64),
		})
	}

	return dataset
}

func waitingValue(entry models.WaitingEntry) string {
	return fmt.Sprintf("%s / %s / %s",
		strconv.FormatFloat(entry.Construction, 'f', -1, 64),
		strconv.FormatFloat(entry.Research, 'f', -1, 64),
		strconv.FormatFloat(entry.Training, 'f', -1, 64))
}
