package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/outreach-engine/internal/domain"
)

func TestNewDropsEmptyAndDuplicateIDs(t *testing.T) {
	reg := New([]domain.OrganizationProfile{
		{ID: "org-a", Name: "First"},
		{ID: "", Name: "No ID"},
		{ID: "  ", Name: "Blank ID"},
		{ID: "org-a", Name: "Duplicate"},
		{ID: "org-b", Name: "Second"},
	})

	assert.Equal(t, 2, reg.Len())
	require.NotNil(t, reg.Get("org-a"))
	assert.Equal(t, "First", reg.Get("org-a").Name, "first entry wins on duplicate id")
	assert.NotNil(t, reg.Get("org-b"))
}

func TestGetUnknownID(t *testing.T) {
	reg := New([]domain.OrganizationProfile{{ID: "org-a"}})
	assert.Nil(t, reg.Get("org-missing"))
}

func TestGetReturnsIsolatedCopy(t *testing.T) {
	reg := New([]domain.OrganizationProfile{
		{ID: "org-a", Name: "Coral Reach", FocusAreas: []string{"coral restoration"}},
	})

	got := reg.Get("org-a")
	require.NotNil(t, got)
	got.Name = "Mutated"
	got.FocusAreas[0] = "mutated"
	got.SelectedForOutreach = true

	fresh := reg.Get("org-a")
	assert.Equal(t, "Coral Reach", fresh.Name)
	assert.Equal(t, "coral restoration", fresh.FocusAreas[0])
	assert.False(t, fresh.SelectedForOutreach)
}

func TestAllReturnsCopiesInLoadOrder(t *testing.T) {
	reg := New([]domain.OrganizationProfile{
		{ID: "org-a", SelectedForOutreach: true},
		{ID: "org-b"},
		{ID: "org-c"},
	})

	all := reg.All()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"org-a", "org-b", "org-c"}, []string{all[0].ID, all[1].ID, all[2].ID})
	for _, org := range all {
		assert.False(t, org.SelectedForOutreach)
	}

	all[1].ID = "mutated"
	assert.Equal(t, "org-b", reg.All()[1].ID)
}

func TestSeedRegistry(t *testing.T) {
	reg := Seed()

	assert.Equal(t, 8, reg.Len())

	coral := reg.Get("org-coral-reach")
	require.NotNil(t, coral)
	assert.Equal(t, "Coral Reach Initiative", coral.Name)
	assert.Equal(t, "marine", coral.Domain)
	assert.Contains(t, coral.FocusAreas, "coral restoration")
	require.NotNil(t, coral.RiskScore)
	assert.Equal(t, 12, *coral.RiskScore)
	assert.Equal(t, domain.PartnerPotential, coral.PartnerStatus)
}
