package brief

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	capitalizedRunRe = regexp.MustCompile(`\b[A-Z][a-z'-]+(?:\s+[A-Z][a-z'-]+)+\b`)
	wordSplitRe      = regexp.MustCompile(`[^\w'-]+`)

	numberUnitRe = regexp.MustCompile(`(?i)\b\d[\d,.]*\s*(?:(?:acres?|hectares?|km2?|square (?:kilometers?|miles?)|usd|dollars?|euros?|people|persons|households|families|communities|villages|years?|months?|weeks?|days?|percent|trees?|seedlings?|species)\b|%)`)
	currencyRe   = regexp.MustCompile(`[$€£]\s?\d[\d,.]*(?:\s?(?:k|m|million|billion|thousand))?`)
	bareNumberRe = regexp.MustCompile(`\b\d+\b`)
)

// Extractor pulls organizations, locations, causes, activities and metrics
// out of cleaned brief text. Pure lexicon + pattern matching, no network.
type Extractor struct {
	lex *Lexicon
}

// NewExtractor returns an Extractor over the given lexicon.
func NewExtractor(lex *Lexicon) *Extractor {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &Extractor{lex: lex}
}

// Extract scans cleaned text and returns the five deduplicated term sets.
func (e *Extractor) Extract(cleaned string) Entities {
	lower := strings.ToLower(cleaned)
	return Entities{
		Organizations: e.extractOrganizations(cleaned, lower),
		Locations:     e.extractLocations(cleaned, lower),
		Causes:        e.extractCategoryHits(lower, e.lex.CauseKeywords),
		Activities:    e.extractCategoryHits(lower, e.lex.ActivityKeywords),
		Metrics:       e.extractMetrics(cleaned, lower),
	}
}

func (e *Extractor) extractOrganizations(cleaned, lower string) []string {
	dedup := newDedup()

	for _, org := range e.lex.KnownOrganizations {
		if idx := strings.Index(lower, org); idx >= 0 {
			dedup.add(cleaned[idx : idx+len(org)])
		}
	}

	// Structural pattern: capitalized word(s) immediately preceding an
	// organizational suffix token ("Acme Rainforest Foundation").
	suffixes := toSet(e.lex.OrgSuffixes)
	words := strings.Fields(cleaned)
	for i, w := range words {
		token := strings.ToLower(strings.Trim(w, `.,!?;:()[]{}"'`))
		if _, ok := suffixes[token]; !ok {
			continue
		}
		start := i
		for start > 0 && isCapitalized(words[start-1]) {
			start--
			if i-start >= 3 {
				break
			}
		}
		if start < i {
			name := strings.Trim(strings.Join(words[start:i+1], " "), `.,!?;:()[]{}"'`)
			dedup.add(name)
		}
	}

	return dedup.items()
}

func (e *Extractor) extractLocations(cleaned, lower string) []string {
	dedup := newDedup()

	for _, region := range e.lex.Regions {
		if idx := strings.Index(lower, region); idx >= 0 {
			dedup.add(cleaned[idx : idx+len(region)])
		}
	}
	for _, ind := range e.lex.GeoIndicators {
		if containsWord(lower, ind) {
			dedup.add(ind)
		}
	}

	// Capitalized multi-word runs are location candidates unless they start
	// with a common word.
	stop := toSet(e.lex.CommonWords)
	for _, run := range capitalizedRunRe.FindAllString(cleaned, -1) {
		first := strings.ToLower(strings.Fields(run)[0])
		if _, ok := stop[first]; ok {
			continue
		}
		dedup.add(run)
	}

	return dedup.items()
}

// extractCategoryHits returns the union of all category keyword hits.
// Categories are scanned in sorted order so output order is reproducible.
func (e *Extractor) extractCategoryHits(lower string, categories map[string][]string) []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	dedup := newDedup()
	for _, name := range names {
		for _, kw := range categories[name] {
			if strings.Contains(lower, kw) {
				dedup.add(kw)
			}
		}
	}
	return dedup.items()
}

func (e *Extractor) extractMetrics(cleaned, lower string) []string {
	dedup := newDedup()

	for _, m := range numberUnitRe.FindAllString(cleaned, -1) {
		dedup.add(strings.TrimSpace(m))
	}
	for _, m := range currencyRe.FindAllString(cleaned, -1) {
		dedup.add(strings.TrimSpace(m))
	}
	for _, m := range bareNumberRe.FindAllString(cleaned, -1) {
		if n, err := strconv.Atoi(m); err == nil && n > 10 {
			dedup.add(m)
		}
	}
	for _, term := range e.lex.MetricVocabulary {
		if containsWord(lower, term) {
			dedup.add(term)
		}
	}

	return dedup.items()
}

// dedup keeps first-seen insertion order with case-insensitive keys.
type dedup struct {
	seen  map[string]struct{}
	order []string
}

func newDedup() *dedup {
	return &dedup{seen: map[string]struct{}{}}
}

func (d *dedup) add(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	key := strings.ToLower(s)
	if _, ok := d.seen[key]; ok {
		return
	}
	d.seen[key] = struct{}{}
	d.order = append(d.order, s)
}

func (d *dedup) items() []string {
	if d.order == nil {
		return []string{}
	}
	return d.order
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[strings.ToLower(it)] = struct{}{}
	}
	return set
}

func isCapitalized(w string) bool {
	w = strings.Trim(w, `.,!?;:()[]{}"'`)
	if w == "" {
		return false
	}
	c := w[0]
	return c >= 'A' && c <= 'Z'
}

// containsWord reports a whole-word, case-insensitive match.
func containsWord(lowerText, word string) bool {
	for _, tok := range wordSplitRe.Split(lowerText, -1) {
		if tok == word {
			return true
		}
	}
	return false
}
