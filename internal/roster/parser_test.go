package roster

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clansdown/KingShotMinisterScheduler/internal/models"
)

func rosterLine(fields ...string) string {
	return strings.Join(fields, "\t")
}

func validLine() string {
	return rosterLine("42|", "Kael", "AAA", "120", "construction, research",
		"30", "25", "10", "5", "09:00", "17:00", "")
}

func TestParseLineValid(t *testing.T) {
	member, diag := ParseLine(1, validLine())
	require.Nil(t, diag)

	assert.Equal(t, "42", member.ID)
	assert.Equal(t, "Kael", member.Name)
	assert.Equal(t, "AAA", member.Alliance)
	assert.Equal(t, 120.0, member.Speedup)
	assert.Equal(t, "construction, research", member.UsedFor)
	assert.Equal(t, 30.0, member.Construction)
	assert.Equal(t, 25.0, member.Research)
	assert.Equal(t, 10.0, member.Training)
	assert.Equal(t, 5.0, member.TrueGold)
	assert.Equal(t, "09:00", member.StartTime)
	assert.Equal(t, "17:00", member.EndTime)
}

func TestParseLineWrongFieldCount(t *testing.T) {
	member, diag := ParseLine(3, "only\tfour\tfields\there")
	assert.Nil(t, member)
	require.NotNil(t, diag)
	assert.Equal(t, 3, diag.Line)
	assert.Equal(t, models.DiagShape, diag.Code)
}

func TestParseLineMissingIdentity(t *testing.T) {
	line := rosterLine("1|", "", "AAA", "0", "", "30", "0", "0", "0", "9", "17", "")
	_, diag := ParseLine(1, line)
	require.NotNil(t, diag)
	assert.Equal(t, models.DiagShape, diag.Code)
}

func TestParseLineBadScore(t *testing.T) {
	line := rosterLine("1|", "Kael", "AAA", "0", "", "lots", "0", "0", "0", "9", "17", "")
	_, diag := ParseLine(1, line)
	require.NotNil(t, diag)
	assert.Equal(t, models.DiagValue, diag.Code)
	assert.Contains(t, diag.Message, "construction")
}

func TestParseLineNegativeScore(t *testing.T) {
	line := rosterLine("1|", "Kael", "AAA", "0", "", "-5", "0", "0", "0", "9", "17", "")
	_, diag := ParseLine(1, line)
	require.NotNil(t, diag)
	assert.Equal(t, models.DiagValue, diag.Code)
}

func TestParseLineStartWithoutEnd(t *testing.T) {
	line := rosterLine("1|", "Kael", "AAA", "0", "", "30", "0", "0", "0", "9", "", "")
	_, diag := ParseLine(1, line)
	require.NotNil(t, diag)
	assert.Equal(t, models.DiagValue, diag.Code)
	assert.Contains(t, diag.Message, "together")
}

func TestParseLineNoTimeSource(t *testing.T) {
	line := rosterLine("1|", "Kael", "AAA", "0", "", "30", "0", "0", "0", "", "", "")
	_, diag := ParseLine(1, line)
	require.NotNil(t, diag)
	assert.Equal(t, models.DiagValue, diag.Code)
}

func TestParseLineAllTimesOnlyIsEnough(t *testing.T) {
	line := rosterLine("1|", "Kael", "AAA", "0", "", "30", "0", "0", "0", "", "", "9 to 12 and 14 to 18")
	member, diag := ParseLine(1, line)
	require.Nil(t, diag)
	assert.Equal(t, "9 to 12 and 14 to 18", member.AllTimes)
}

func TestParseLineUnparseableExplicitTime(t *testing.T) {
	line := rosterLine("1|", "Kael", "AAA", "0", "", "30", "0", "0", "0", "sometimes", "17", "")
	_, diag := ParseLine(1, line)
	require.NotNil(t, diag)
	assert.Equal(t, models.DiagValue, diag.Code)
}

func TestParseLineEmptyScoresDefaultToZero(t *testing.T) {
	line := rosterLine("1|", "Kael", "AAA", "", "", "", "", "", "", "9", "17", "")
	member, diag := ParseLine(1, line)
	require.Nil(t, diag)
	assert.Zero(t, member.Speedup)
	assert.Zero(t, member.Construction)
	assert.Zero(t, member.TrueGold)
}

func TestParseRosterSkipsBadLinesAndContinues(t *testing.T) {
	doc := strings.Join([]string{
		validLine(),
		"",
		"garbage line",
		rosterLine("2|", "Mira", "BBB", "0", "research", "0", "40", "0", "2", "", "", "20-23"),
	}, "\n")

	result := ParseRoster(doc)
	require.Len(t, result.Members, 2)
	require.Len(t, result.Diagnostics, 1)

	assert.Equal(t, "Kael", result.Members[0].Name)
	assert.Equal(t, "Mira", result.Members[1].Name)
	// blank lines don't count; diagnostic points at the garbage line
	assert.Equal(t, 3, result.Diagnostics[0].Line)
}

func TestParseRosterHandlesCRLF(t *testing.T) {
	result := ParseRoster(validLine() + "\r\n")
	require.Len(t, result.Members, 1)
	assert.Empty(t, result.Diagnostics)
}
