package extract

import (
	_ "embed"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// The genre vocabulary is data, not code: the exact term list drives what the
// extractor can ever report, so it lives in a YAML file alongside the matcher.
//
//go:embed genres.yaml
var genreVocabYAML []byte

const maxGenres = 8

var (
	genreVocab   []string
	genreRes     map[string]*regexp.Regexp
	genreLabelRe = regexp.MustCompile(`(?i)(?:music|genres?|style|featuring)\s*:\s*([^\n<]{1,160})`)
	titleCaser   = cases.Title(language.AmericanEnglish)
)

func init() {
	var doc struct {
		Genres []string `yaml:"genres"`
	}
	if err := yaml.Unmarshal(genreVocabYAML, &doc); err != nil {
		panic("extract: bad genre vocabulary: " + err.Error())
	}
	genreVocab = doc.Genres
	genreRes = make(map[string]*regexp.Regexp, len(genreVocab))
	for _, g := range genreVocab {
		genreRes[g] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(g) + `\b`)
	}
}

// Genres matches page text against the fixed genre vocabulary. A first pass
// looks for vocabulary terms anywhere in the text on word boundaries; a
// second pass scans the phrase following labels like "music:" or "genres:"
// for vocabulary terms embedded in free text. Matches are title-cased,
// deduplicated, sorted alphabetically, capped at 8, and joined with "; ".
// Returns "" when no vocabulary term appears.
func Genres(text string) string {
	found := make(map[string]bool)

	for _, g := range genreVocab {
		if genreRes[g].MatchString(text) {
			found[titleCaser.String(g)] = true
		}
	}

	for _, m := range genreLabelRe.FindAllStringSubmatch(text, -1) {
		phrase := m[1]
		for _, g := range genreVocab {
			if genreRes[g].MatchString(phrase) {
				found[titleCaser.String(g)] = true
			}
		}
	}

	if len(found) == 0 {
		return ""
	}

	genres := make([]string, 0, len(found))
	for g := range found {
		genres = append(genres, g)
	}
	sort.Strings(genres)
	if len(genres) > maxGenres {
		genres = genres[:maxGenres]
	}
	return strings.Join(genres, "; ")
}
