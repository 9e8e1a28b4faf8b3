// Package registry holds the static candidate registry: the organization
// profiles available for matching. The registry is loaded once at process
// start and is read-only afterwards; search works on copies.
package registry

import (
	"strings"
	"time"

	"github.com/ignite/outreach-engine/internal/domain"
)

// Registry is an ordered, immutable-after-load set of organization
// profiles. Order is load order and is the matcher's tie-break.
type Registry struct {
	orgs []domain.OrganizationProfile
	byID map[string]int
}

// New builds a registry from profiles, preserving order. Entries with
// duplicate or empty ids are dropped.
func New(orgs []domain.OrganizationProfile) *Registry {
	r := &Registry{byID: make(map[string]int, len(orgs))}
	for _, org := range orgs {
		id := strings.TrimSpace(org.ID)
		if id == "" {
			continue
		}
		if _, dup := r.byID[id]; dup {
			continue
		}
		org.SelectedForOutreach = false
		r.byID[id] = len(r.orgs)
		r.orgs = append(r.orgs, org)
	}
	return r
}

// Len returns the number of registry entries.
func (r *Registry) Len() int {
	return len(r.orgs)
}

// Get returns a copy of the profile with the given id, or nil.
func (r *Registry) Get(id string) *domain.OrganizationProfile {
	idx, ok := r.byID[id]
	if !ok {
		return nil
	}
	org := r.orgs[idx]
	org.FocusAreas = append([]string(nil), org.FocusAreas...)
	return &org
}

// All returns copies of every entry in load order, each stamped
// SelectedForOutreach=false.
func (r *Registry) All() []domain.OrganizationProfile {
	out := make([]domain.OrganizationProfile, len(r.orgs))
	for i, org := range r.orgs {
		org.FocusAreas = append([]string(nil), org.FocusAreas...)
		org.SelectedForOutreach = false
		out[i] = org
	}
	return out
}

func intPtr(v int) *int { return &v }

// Seed returns a small built-in registry used when no registry file or
// bucket is configured. Useful for local runs and tests.
func Seed() *Registry {
	now := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	mk := func(id, name, email, dom, geo string, focus []string, rationale string, risk int) domain.OrganizationProfile {
		return domain.OrganizationProfile{
			ID:            id,
			Name:          name,
			ContactEmail:  email,
			Domain:        dom,
			Geography:     geo,
			FocusAreas:    focus,
			FitRationale:  rationale,
			PartnerStatus: domain.PartnerPotential,
			RiskScore:     intPtr(risk),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
	}
	return New([]domain.OrganizationProfile{
		mk("org-coral-reach", "Coral Reach Initiative", "partners@coralreach.org", "marine",
			"Caribbean",
			[]string{"coral restoration", "marine conservation", "reef monitoring"},
			"Regional coral restoration specialists with active Caribbean field teams", 12),
		mk("org-bluewater", "Bluewater Ocean Trust", "hello@bluewatertrust.org", "marine",
			"Global",
			[]string{"ocean policy", "fisheries", "marine protected areas"},
			"Global ocean advocacy with strong policy connections", 18),
		mk("org-canopy", "Canopy Futures Foundation", "contact@canopyfutures.org", "forest",
			"Brazil, Amazon",
			[]string{"reforestation", "agroforestry", "indigenous partnerships"},
			"Amazon reforestation at scale with community co-management", 25),
		mk("org-greenroots", "GreenRoots Alliance", "info@greenroots.org", "forest",
			"Kenya, East Africa",
			[]string{"reforestation", "community forestry", "tree nurseries"},
			"Community-driven tree planting across East Africa", 8),
		mk("org-wetland-watch", "Wetland Watch Institute", "team@wetlandwatch.org", "wetland",
			"Southeast Asia",
			[]string{"wetland restoration", "water quality", "bird habitat"},
			"Long-running wetland science and restoration programs", 15),
		mk("org-urban-canopy", "Urban Canopy Collective", "collective@urbancanopy.org", "urban",
			"United States",
			[]string{"urban greening", "community gardens", "environmental education"},
			"City greening projects with strong volunteer networks", 5),
		mk("org-terra-research", "Terra Research Council", "research@terracouncil.org", "climate",
			"Global",
			[]string{"climate research", "carbon measurement", "field studies"},
			"Independent climate research with published methodologies", 30),
		mk("org-harvest-hands", "Harvest Hands Network", "network@harvesthands.org", "agriculture",
			"Ghana, West Africa",
			[]string{"sustainable agriculture", "farmer training", "soil health"},
			"Smallholder farmer support network across West Africa", 10),
	})
}
