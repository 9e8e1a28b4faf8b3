// Package brief implements the campaign-brief analysis pipeline:
// normalization, entity extraction, intent classification, tone analysis
// and gap analysis. Everything here is deterministic; the only external
// call is the optional geo collaborator used for localization.
package brief

import "context"

// Analyzer wires the pipeline stages together.
type Analyzer struct {
	normalizer *Normalizer
	extractor  *Extractor
	classifier *Classifier
	tone       *ToneAnalyzer
	gaps       *GapAnalyzer
}

// NewAnalyzer builds the full pipeline over one lexicon. resolver may be
// nil; localization then stays empty.
func NewAnalyzer(lex *Lexicon, resolver LocationResolver) *Analyzer {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &Analyzer{
		normalizer: NewNormalizer(),
		extractor:  NewExtractor(lex),
		classifier: NewClassifier(lex, resolver),
		tone:       NewToneAnalyzer(lex),
		gaps:       NewGapAnalyzer(lex),
	}
}

// Analyze runs the whole pipeline on raw brief text. The returned
// ProcessedBrief carries the quality record derived from the gap report.
func (a *Analyzer) Analyze(ctx context.Context, raw string) *Analysis {
	pb := a.normalizer.Process(raw)

	entities := a.extractor.Extract(pb.CleanedText)
	intent := a.classifier.Classify(ctx, pb)
	tone := a.tone.Analyze(pb)
	gaps := a.gaps.Analyze(pb, intent, entities, tone)

	pb.Quality = Quality{
		Score:       gaps.CompletenessScore,
		Issues:      gaps.MissingInformation,
		Suggestions: gaps.SuggestedAdditions,
	}

	return &Analysis{
		Brief:    pb,
		Intent:   intent,
		Entities: entities,
		Tone:     tone,
		Gaps:     gaps,
	}
}
