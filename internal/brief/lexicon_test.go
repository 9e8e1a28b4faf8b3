package brief

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLexicon(t *testing.T) {
	lex := DefaultLexicon()

	assert.Contains(t, lex.GoalKeywords[string(GoalPartnership)], "collaborate")
	assert.Contains(t, lex.UrgencyKeywords[string(UrgencyCritical)], "urgent deadline")
	assert.Contains(t, lex.DomainKeywords["marine"], "coral")
	assert.Contains(t, lex.Regions, "caribbean")
	assert.Contains(t, lex.KnownOrganizations, "wwf")
}

func TestLoadLexiconEmptyPath(t *testing.T) {
	lex, err := LoadLexicon("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLexicon(), lex)
}

func TestLoadLexiconOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	content := `
vague_words:
  - fuzzy
  - handwavy
regions:
  - atlantis
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	lex, err := LoadLexicon(path)
	require.NoError(t, err)

	// overridden tables replace the defaults
	assert.Equal(t, []string{"fuzzy", "handwavy"}, lex.VagueWords)
	assert.Equal(t, []string{"atlantis"}, lex.Regions)
	// untouched tables keep the defaults
	assert.Equal(t, DefaultLexicon().GoalKeywords, lex.GoalKeywords)
	assert.Contains(t, lex.KnownOrganizations, "greenpeace")
}

func TestLoadLexiconMissingFile(t *testing.T) {
	_, err := LoadLexicon("/nonexistent/lexicon.yaml")
	assert.Error(t, err)
}

func TestLoadLexiconMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vague_words: [unclosed"), 0644))

	_, err := LoadLexicon(path)
	assert.Error(t, err)
}
