// Package roster parses the pipe/tab roster export and prepares scheduling
// candidates from it. Bad lines never abort an import: each one is skipped
// with a positional diagnostic and parsing continues.
package roster

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/clansdown/KingShotMinisterScheduler/internal/models"
	"github.com/clansdown/KingShotMinisterScheduler/internal/timeparse"
)

// fieldCount is the shape of one roster line:
// id| name alliance speedup used_for construction research training gold start end all_times
const fieldCount = 12

// ParseResult carries the members that parsed cleanly plus diagnostics for
// every skipped line.
type ParseResult struct {
	Members     []models.RosterMember
	Diagnostics []models.Diagnostic
}

// ParseRoster parses a whole roster document. Blank lines are ignored.
func ParseRoster(content string) ParseResult {
	var result ParseResult
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		member, diag := ParseLine(i+1, line)
		if diag != nil {
			result.Diagnostics = append(result.Diagnostics, *diag)
			continue
		}
		result.Members = append(result.Members, *member)
	}
	return result
}

// ParseLine parses one tab-separated roster line.
func ParseLine(lineNo int, line string) (*models.RosterMember, *models.Diagnostic) {
	fields := strings.Split(line, "\t")
	if len(fields) != fieldCount {
		return nil, shapeDiag(lineNo, fmt.Sprintf("expected %d fields, got %d", fieldCount, len(fields)))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	id := strings.TrimSuffix(fields[0], "|")
	name := fields[1]
	alliance := fields[2]
	if name == "" || alliance == "" {
		return nil, shapeDiag(lineNo, "member name and alliance are required")
	}

	speedup, err := parseScore(fields[3])
	if err != nil {
		return nil, valueDiag(lineNo, "speedup", fields[3])
	}
	construction, err := parseScore(fields[5])
	if err != nil {
		return nil, valueDiag(lineNo, "construction", fields[5])
	}
	research, err := parseScore(fields[6])
	if err != nil {
		return nil, valueDiag(lineNo, "research", fields[6])
	}
	training, err := parseScore(fields[7])
	if err != nil {
		return nil, valueDiag(lineNo, "training", fields[7])
	}
	gold, err := parseScore(fields[8])
	if err != nil {
		return nil, valueDiag(lineNo, "truegold", fields[8])
	}

	start, end, allTimes := fields[9], fields[10], fields[11]
	if (start == "") != (end == "") {
		return nil, &models.Diagnostic{Line: lineNo, Code: models.DiagValue,
			Message: "start and end time must be provided together"}
	}
	if start == "" && allTimes == "" {
		return nil, &models.Diagnostic{Line: lineNo, Code: models.DiagValue,
			Message: "at least one time source (start/end pair or all-times) is required"}
	}
	if start != "" {
		if _, ok := timeparse.NormalizeClockTime(start); !ok {
			return nil, valueDiag(lineNo, "start time", start)
		}
		if _, ok := timeparse.NormalizeClockTime(end); !ok {
			return nil, valueDiag(lineNo, "end time", end)
		}
	}

	return &models.RosterMember{
		ID:           id,
		Alliance:     alliance,
		Name:         name,
		Speedup:      speedup,
		UsedFor:      fields[4],
		Construction: construction,
		Research:     research,
		Training:     training,
		TrueGold:     gold,
		StartTime:    start,
		EndTime:      end,
		AllTimes:     allTimes,
	}, nil
}

func parseScore(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative score %q", raw)
	}
	return v, nil
}

func shapeDiag(line int, msg string) *models.Diagnostic {
	return &models.Diagnostic{Line: line, Code: models.DiagShape, Message: msg}
}

func valueDiag(line int, field, raw string) *models.Diagnostic {
	return &models.Diagnostic{Line: line, Code: models.DiagValue,
		Message: fmt.Sprintf("invalid %s %q", field, raw)}
}
