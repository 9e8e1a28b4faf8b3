// Package geo implements the geocoding collaborator: resolving free text
// to structured locations. The static resolver works off a compiled-in
// gazetteer; a Redis cache can be layered over any resolver.
package geo

import (
	"context"
	"sort"
	"strings"

	"github.com/ignite/outreach-engine/internal/domain"
)

// Resolver resolves free text to zero or more candidate locations.
type Resolver interface {
	// ResolveLocation returns the best candidate for the text, or nil if
	// nothing resolves.
	ResolveLocation(ctx context.Context, text string) (*domain.LocationInfo, error)
	// ExtractLocations returns every candidate mentioned in the text.
	ExtractLocations(ctx context.Context, text string) ([]domain.LocationInfo, error)
}

// gazetteer entries: lookup phrase -> resolved location. Confidence
// reflects how specific the phrase is (a city beats a region).
var gazetteer = []struct {
	phrase string
	info   domain.LocationInfo
}{
	{"nairobi", domain.LocationInfo{Country: "Kenya", City: "Nairobi", Coordinates: &domain.Coordinates{Latitude: -1.2864, Longitude: 36.8172}, Confidence: 90}},
	{"mombasa", domain.LocationInfo{Country: "Kenya", City: "Mombasa", Coordinates: &domain.Coordinates{Latitude: -4.0435, Longitude: 39.6682}, Confidence: 90}},
	{"kenya", domain.LocationInfo{Country: "Kenya", Confidence: 80}},
	{"manaus", domain.LocationInfo{Country: "Brazil", State: "Amazonas", City: "Manaus", Coordinates: &domain.Coordinates{Latitude: -3.119, Longitude: -60.0217}, Confidence: 90}},
	{"amazon", domain.LocationInfo{Country: "Brazil", State: "Amazonas", Confidence: 70}},
	{"brazil", domain.LocationInfo{Country: "Brazil", Confidence: 80}},
	{"jakarta", domain.LocationInfo{Country: "Indonesia", City: "Jakarta", Coordinates: &domain.Coordinates{Latitude: -6.2088, Longitude: 106.8456}, Confidence: 90}},
	{"borneo", domain.LocationInfo{Country: "Indonesia", State: "Kalimantan", Confidence: 75}},
	{"indonesia", domain.LocationInfo{Country: "Indonesia", Confidence: 80}},
	{"caribbean", domain.LocationInfo{Country: "Caribbean", Confidence: 70}},
	{"madagascar", domain.LocationInfo{Country: "Madagascar", Confidence: 80}},
	{"tanzania", domain.LocationInfo{Country: "Tanzania", Confidence: 80}},
	{"colombia", domain.LocationInfo{Country: "Colombia", Confidence: 80}},
	{"peru", domain.LocationInfo{Country: "Peru", Confidence: 80}},
	{"mexico", domain.LocationInfo{Country: "Mexico", Confidence: 80}},
	{"vietnam", domain.LocationInfo{Country: "Vietnam", Confidence: 80}},
	{"nepal", domain.LocationInfo{Country: "Nepal", Confidence: 80}},
	{"philippines", domain.LocationInfo{Country: "Philippines", Confidence: 80}},
	{"costa rica", domain.LocationInfo{Country: "Costa Rica", Confidence: 80}},
	{"ecuador", domain.LocationInfo{Country: "Ecuador", Confidence: 80}},
	{"ghana", domain.LocationInfo{Country: "Ghana", Confidence: 80}},
	{"uganda", domain.LocationInfo{Country: "Uganda", Confidence: 80}},
	{"india", domain.LocationInfo{Country: "India", Confidence: 80}},
	{"united states", domain.LocationInfo{Country: "United States", Confidence: 80}},
	{"canada", domain.LocationInfo{Country: "Canada", Confidence: 80}},
	{"australia", domain.LocationInfo{Country: "Australia", Confidence: 80}},
	{"germany", domain.LocationInfo{Country: "Germany", Confidence: 80}},
	{"netherlands", domain.LocationInfo{Country: "Netherlands", Confidence: 80}},
	{"southeast asia", domain.LocationInfo{Country: "Southeast Asia", Confidence: 60}},
	{"latin america", domain.LocationInfo{Country: "Latin America", Confidence: 60}},
	{"east africa", domain.LocationInfo{Country: "East Africa", Confidence: 60}},
	{"west africa", domain.LocationInfo{Country: "West Africa", Confidence: 60}},
	{"africa", domain.LocationInfo{Country: "Africa", Confidence: 50}},
	{"asia", domain.LocationInfo{Country: "Asia", Confidence: 50}},
	{"europe", domain.LocationInfo{Country: "Europe", Confidence: 50}},
	{"oceania", domain.LocationInfo{Country: "Oceania", Confidence: 50}},
}

// StaticResolver resolves against the compiled-in gazetteer. No network,
// deterministic, safe for concurrent use.
type StaticResolver struct{}

// NewStaticResolver returns a StaticResolver.
func NewStaticResolver() *StaticResolver {
	return &StaticResolver{}
}

// ResolveLocation returns the highest-confidence gazetteer match, or nil.
func (r *StaticResolver) ResolveLocation(ctx context.Context, text string) (*domain.LocationInfo, error) {
	candidates, err := r.ExtractLocations(ctx, text)
	if err != nil || len(candidates) == 0 {
		return nil, err
	}
	return &candidates[0], nil
}

// ExtractLocations returns every gazetteer phrase mentioned in the text,
// sorted by confidence descending. A phrase containing another ("east
// africa", "africa") yields both candidates; callers keep the best.
func (r *StaticResolver) ExtractLocations(ctx context.Context, text string) ([]domain.LocationInfo, error) {
	lower := strings.ToLower(text)
	var out []domain.LocationInfo
	for _, entry := range gazetteer {
		if strings.Contains(lower, entry.phrase) {
			info := entry.info
			info.Source = "static-gazetteer"
			out = append(out, info)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out, nil
}
