package brief

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/outreach-engine/internal/domain"
)

type stubResolver struct {
	locs []domain.LocationInfo
	err  error
}

func (s *stubResolver) ExtractLocations(ctx context.Context, text string) ([]domain.LocationInfo, error) {
	return s.locs, s.err
}

func processed(t *testing.T, raw string) *ProcessedBrief {
	t.Helper()
	return NewNormalizer().Process(raw)
}

func TestClassifyPrimaryGoal(t *testing.T) {
	c := NewClassifier(nil, nil)

	tests := []struct {
		name     string
		text     string
		expected Goal
	}{
		{
			name:     "partnership",
			text:     "We want to partner and collaborate on a joint reef program.",
			expected: GoalPartnership,
		},
		{
			name:     "funding",
			text:     "Seeking grant funding from a donor to sponsor the nursery.",
			expected: GoalFunding,
		},
		{
			name:     "volunteers",
			text:     "We need volunteers and helpers for hands-on replanting days.",
			expected: GoalVolunteers,
		},
		{
			name:     "advocacy",
			text:     "An awareness and policy petition to mobilize coastal communities.",
			expected: GoalAdvocacy,
		},
		{
			name:     "research",
			text:     "A scientific study with a survey methodology and data analysis.",
			expected: GoalResearch,
		},
		{
			name:     "default when nothing matches",
			text:     "Trees near the shore.",
			expected: GoalPartnership,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := c.Classify(context.Background(), processed(t, tt.text))
			assert.Equal(t, tt.expected, intent.PrimaryGoal)
		})
	}
}

func TestClassifyDomain(t *testing.T) {
	c := NewClassifier(nil, nil)

	intent := c.Classify(context.Background(), processed(t, "Restore the coral reef and coastal fisheries."))
	assert.Equal(t, "marine", intent.Domain)

	intent = c.Classify(context.Background(), processed(t, "A rooftop park for the neighborhood."))
	assert.Equal(t, "urban", intent.Domain)
}

func TestClassifyUrgencyLadder(t *testing.T) {
	c := NewClassifier(nil, nil)

	tests := []struct {
		name     string
		text     string
		expected Urgency
	}{
		{
			name: "critical outranks high on overlapping phrase",
			// "urgent deadline" also contains the high-tier word "urgent"
			text:     "We face an urgent deadline for the permit.",
			expected: UrgencyCritical,
		},
		{
			name:     "high",
			text:     "This is urgent, please respond asap.",
			expected: UrgencyHigh,
		},
		{
			name:     "low",
			text:     "No rush, timing is flexible for us.",
			expected: UrgencyLow,
		},
		{
			name:     "default medium",
			text:     "We plant trees along the river.",
			expected: UrgencyMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := c.Classify(context.Background(), processed(t, tt.text))
			assert.Equal(t, tt.expected, intent.Urgency)
		})
	}
}

func TestClassifyTimeline(t *testing.T) {
	c := NewClassifier(nil, nil)

	tests := []struct {
		text     string
		expected Timeline
	}{
		{"We start this week with the first nursery.", TimelineImmediate},
		{"A multi-year restoration effort across the basin.", TimelineLongTerm},
		{"Ongoing monitoring of the replanted sites.", TimelineOngoing},
		{"We plant trees along the river.", TimelineShortTerm},
	}

	for _, tt := range tests {
		intent := c.Classify(context.Background(), processed(t, tt.text))
		assert.Equal(t, tt.expected, intent.Timeline, "text: %s", tt.text)
	}
}

func TestClassifyConfidence(t *testing.T) {
	c := NewClassifier(nil, nil)

	sparse := c.Classify(context.Background(), processed(t, "Help trees."))
	assert.Equal(t, 50, sparse.Confidence)

	rich := c.Classify(context.Background(), processed(t,
		"Our budget and timeline include a measurable target of 500 hectares. We will hit each milestone."))
	assert.Greater(t, rich.Confidence, sparse.Confidence)
	assert.LessOrEqual(t, rich.Confidence, 100)
}

func TestClassifyLocalization(t *testing.T) {
	resolver := &stubResolver{locs: []domain.LocationInfo{
		{Country: "Mexico", Confidence: 40},
		{Country: "Belize", City: "Belize City", Confidence: 80},
	}}
	c := NewClassifier(nil, resolver)

	intent := c.Classify(context.Background(), processed(t, "Reef work near the barrier reef."))
	assert.Equal(t, "Belize", intent.Localization.Country)
	assert.Equal(t, "Belize City", intent.Localization.City)
	assert.Equal(t, 80, intent.Localization.Confidence)
}

func TestClassifyLocalizationResolverFailureDegrades(t *testing.T) {
	c := NewClassifier(nil, &stubResolver{err: errors.New("geo service down")})

	intent := c.Classify(context.Background(), processed(t, "Reef work near the coast."))
	assert.Equal(t, Localization{}, intent.Localization)
}

func TestClassifyNilResolver(t *testing.T) {
	c := NewClassifier(nil, nil)

	intent := c.Classify(context.Background(), processed(t, "Reef work in the Caribbean."))
	require.Equal(t, Localization{}, intent.Localization)
}
