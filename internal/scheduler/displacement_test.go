package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clansdown/KingShotMinisterScheduler/internal/models"
)

func scoreEval(scores map[string]float64) Evaluator {
	return func(c *models.Candidate) float64 {
		return scores[c.Identity.Name]
	}
}

func TestPerformDisplacementSwapsStrictlyHigherValue(t *testing.T) {
	incumbent := namedCandidate("incumbent", models.Interval{Start: 540, End: 570})
	challenger := namedCandidate("challenger", models.Interval{Start: 540, End: 570})
	eval := scoreEval(map[string]float64{"incumbent": 10, "challenger": 30})

	assigned := []Assignment{{
		Slot:      models.Slot{Start: 540, End: 570, CoreEnd: 550},
		Candidate: incumbent,
	}}

	result, pending := PerformDisplacement([]*models.Candidate{challenger}, assigned, eval)
	require.Len(t, result, 1)
	assert.Equal(t, "challenger", result[0].Candidate.Identity.Name)
	require.Len(t, pending, 1)
	assert.Equal(t, "incumbent", pending[0].Identity.Name)
}

func TestPerformDisplacementTiesNeverSwap(t *testing.T) {
	incumbent := namedCandidate("incumbent", models.Interval{Start: 540, End: 570})
	challenger := namedCandidate("challenger", models.Interval{Start: 540, End: 570})
	eval := scoreEval(map[string]float64{"incumbent": 30, "challenger": 30})

	assigned := []Assignment{{
		Slot:      models.Slot{Start: 540, End: 570, CoreEnd: 550},
		Candidate: incumbent,
	}}

	result, pending := PerformDisplacement([]*models.Candidate{challenger}, assigned, eval)
	assert.Equal(t, "incumbent", result[0].Candidate.Identity.Name)
	assert.Equal(t, "challenger", pending[0].Identity.Name)
}

func TestPerformDisplacementTargetsLowestIncumbent(t *testing.T) {
	low := namedCandidate("low", models.Interval{Start: 540, End: 600})
	high := namedCandidate("high", models.Interval{Start: 540, End: 600})
	challenger := namedCandidate("challenger", models.Interval{Start: 540, End: 600})
	eval := scoreEval(map[string]float64{"low": 5, "high": 50, "challenger": 20})

	assigned := []Assignment{
		{Slot: models.Slot{Start: 540, End: 570, CoreEnd: 550}, Candidate: high},
		{Slot: models.Slot{Start: 570, End: 600, CoreEnd: 580}, Candidate: low},
	}

	result, pending := PerformDisplacement([]*models.Candidate{challenger}, assigned, eval)
	assert.Equal(t, "high", result[0].Candidate.Identity.Name)
	assert.Equal(t, "challenger", result[1].Candidate.Identity.Name)
	require.Len(t, pending, 1)
	assert.Equal(t, "low", pending[0].Identity.Name)
}

func TestPerformDisplacementRespectsAvailability(t *testing.T) {
	incumbent := namedCandidate("incumbent", models.Interval{Start: 540, End: 570})
	challenger := namedCandidate("challenger", models.Interval{Start: 600, End: 660})
	eval := scoreEval(map[string]float64{"incumbent": 1, "challenger": 99})

	assigned := []Assignment{{
		Slot:      models.Slot{Start: 540, End: 570, CoreEnd: 550},
		Candidate: incumbent,
	}}

	result, pending := PerformDisplacement([]*models.Candidate{challenger}, assigned, eval)
	assert.Equal(t, "incumbent", result[0].Candidate.Identity.Name)
	assert.Equal(t, "challenger", pending[0].Identity.Name)
}

// A displaced incumbent may displace someone weaker in turn; the chain ends
// with the weakest candidate pending and the minimum held value raised.
func TestPerformDisplacementChains(t *testing.T) {
	weak := namedCandidate("weak", models.Interval{Start: 540, End: 600})
	mid := namedCandidate("mid", models.Interval{Start: 540, End: 600})
	strong := namedCandidate("strong", models.Interval{Start: 540, End: 600})
	eval := scoreEval(map[string]float64{"weak": 10, "mid": 20, "strong": 30})

	assigned := []Assignment{
		{Slot: models.Slot{Start: 540, End: 570, CoreEnd: 550}, Candidate: weak},
	}

	result, pending := PerformDisplacement([]*models.Candidate{strong, mid}, assigned, eval)
	require.Len(t, result, 1)
	assert.Equal(t, "strong", result[0].Candidate.Identity.Name)
	require.Len(t, pending, 2)
	for _, p := range pending {
		assert.NotEqual(t, "strong", p.Identity.Name)
	}
}

func TestPerformDisplacementDoesNotMutateInputs(t *testing.T) {
	incumbent := namedCandidate("incumbent", models.Interval{Start: 540, End: 570})
	challenger := namedCandidate("challenger", models.Interval{Start: 540, End: 570})
	eval := scoreEval(map[string]float64{"incumbent": 10, "challenger": 30})

	assigned := []Assignment{{
		Slot:      models.Slot{Start: 540, End: 570, CoreEnd: 550},
		Candidate: incumbent,
	}}
	pending := []*models.Candidate{challenger}

	PerformDisplacement(pending, assigned, eval)
	assert.Equal(t, "incumbent", assigned[0].Candidate.Identity.Name)
	assert.Equal(t, "challenger", pending[0].Identity.Name)
}
