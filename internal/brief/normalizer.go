package brief

import (
	"regexp"
	"strings"
)

// copy-paste artifacts that show up in briefs pasted from word processors
var artifactReplacer = strings.NewReplacer(
	" ", " ", // non-breaking space
	"“", `"`, // left smart quote
	"”", `"`, // right smart quote
	"‘", "'", // left smart apostrophe
	"’", "'", // right smart apostrophe
	"–", "-", // en dash
	"—", "-", // em dash
	"…", "...", // ellipsis glyph
)

var (
	multiBlankRe     = regexp.MustCompile(`\n{3,}`)
	spaceRunRe       = regexp.MustCompile(`[ \t]+`)
	disallowedRe     = regexp.MustCompile(`[^\w\s.,!?;:()\[\]{}"'*•$€£%@-]`)
	spaceBeforePunct = regexp.MustCompile(`\s+([.,!?;:])`)
	openBracketSpace = regexp.MustCompile(`([(\[{])\s+`)
	closeBracketGap  = regexp.MustCompile(`\s+([)\]}])`)
	sentenceGapRe    = regexp.MustCompile(`([.!?])([A-Z])`)

	bulletLineRe   = regexp.MustCompile(`^\s*[•*-]\s+`)
	numberedLineRe = regexp.MustCompile(`^\s*\d+[.)]\s+`)
	sentenceEndRe  = regexp.MustCompile(`[.!?]+`)
	letterRe       = regexp.MustCompile(`[A-Za-z]`)
)

// Normalizer turns raw brief text into a ProcessedBrief. It is stateless
// and safe for concurrent use.
type Normalizer struct{}

// NewNormalizer returns a Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Process cleans and segments raw text. The returned brief's Quality field
// is zero; the gap analyzer fills it.
func (n *Normalizer) Process(raw string) *ProcessedBrief {
	cleaned := n.Clean(raw)

	pb := &ProcessedBrief{
		OriginalText:    raw,
		CleanedText:     cleaned,
		EstimatedFormat: FormatUnknown,
	}
	if cleaned == "" {
		pb.Sentences = []string{}
		pb.Paragraphs = []string{}
		return pb
	}

	pb.WordCount = len(strings.Fields(cleaned))
	pb.Paragraphs = splitParagraphs(cleaned)
	pb.HasMultiParas = len(pb.Paragraphs) > 1

	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch classifyLine(line) {
		case LineBullet:
			pb.HasBullets = true
			pb.Sentences = append(pb.Sentences, stripListMarker(line))
		case LineNumbered:
			pb.HasNumberedList = true
			pb.Sentences = append(pb.Sentences, stripListMarker(line))
		case LineHeading:
			pb.Sentences = append(pb.Sentences, line)
		default:
			pb.Sentences = append(pb.Sentences, splitSentences(line)...)
		}
	}

	// A brief with no sentence-ending punctuation still gets one segment.
	if len(pb.Sentences) == 0 {
		pb.Sentences = []string{cleaned}
	}

	pb.EstimatedFormat = estimateFormat(pb)
	return pb
}

// Clean applies artifact replacement, whitespace collapse, the character
// allow-list, and punctuation spacing rules.
func (n *Normalizer) Clean(raw string) string {
	text := artifactReplacer.Replace(raw)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\t", " ")
	text = disallowedRe.ReplaceAllString(text, "")
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = multiBlankRe.ReplaceAllString(text, "\n\n")
	text = spaceBeforePunct.ReplaceAllString(text, "$1")
	text = openBracketSpace.ReplaceAllString(text, "$1")
	text = closeBracketGap.ReplaceAllString(text, " $1")
	text = sentenceGapRe.ReplaceAllString(text, "$1 $2")

	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	text = strings.Join(lines, "\n")
	text = multiBlankRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func classifyLine(line string) LineKind {
	if bulletLineRe.MatchString(line) {
		return LineBullet
	}
	if numberedLineRe.MatchString(line) {
		return LineNumbered
	}
	if isHeading(line) {
		return LineHeading
	}
	return LineParagraph
}

// isHeading treats short all-caps lines as headings.
func isHeading(line string) bool {
	if len(line) < 3 || len(line) > 50 {
		return false
	}
	if !letterRe.MatchString(line) {
		return false
	}
	return line == strings.ToUpper(line)
}

func stripListMarker(line string) string {
	line = bulletLineRe.ReplaceAllString(line, "")
	line = numberedLineRe.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}

// splitSentences splits on runs of sentence-ending punctuation, discarding
// fragments of five characters or fewer.
func splitSentences(text string) []string {
	var out []string
	for _, frag := range sentenceEndRe.Split(text, -1) {
		frag = strings.TrimSpace(frag)
		if len(frag) > 5 {
			out = append(out, frag)
		}
	}
	if out == nil && strings.TrimSpace(text) != "" {
		return []string{strings.TrimSpace(text)}
	}
	return out
}

func splitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// estimateFormat applies the fixed decision table: list markers only ->
// list, multiple paragraphs only -> paragraph, both -> mixed, neither ->
// unknown.
func estimateFormat(pb *ProcessedBrief) Format {
	hasList := pb.HasBullets || pb.HasNumberedList
	switch {
	case hasList && pb.HasMultiParas:
		return FormatMixed
	case hasList:
		return FormatList
	case pb.HasMultiParas:
		return FormatParagraph
	default:
		return FormatUnknown
	}
}
