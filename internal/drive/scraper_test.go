package drive

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fileLink(id string) string {
	return fmt.Sprintf(`<a href="https://drive.google.com/file/d/%s/view?usp=drive_web">`, id)
}

func thumbLink(id string) string {
	return fmt.Sprintf(`<img src="https://drive.google.com/thumbnail?id=%s&amp;sz=s190">`, id)
}

func TestScraperUnionsPrimaryPatterns(t *testing.T) {
	// N=3 file links, M=2 thumbnails, K=1 overlap.
	html := strings.Join([]string{
		fileLink("fileA"), fileLink("fileB"), fileLink("shared"),
		fileLink("fileA"),
		thumbLink("shared"), thumbLink("thumbOnly"),
	}, "\n")

	ids, tier := NewScraper(DefaultTiers(25, 50)).FileIDs(html)

	assert.Equal(t, 0, tier)
	assert.ElementsMatch(t, []string{"fileA", "fileB", "shared", "thumbOnly"}, ids)
	assert.Equal(t, []string{"fileA", "fileB", "shared", "thumbOnly"}, ids, "first-seen order")
}

func TestScraperFallsBackToQuotedTokens(t *testing.T) {
	tok25 := strings.Repeat("a", 25)
	tok50 := strings.Repeat("b", 49) + "_"
	tok51 := strings.Repeat("c", 51)
	short := strings.Repeat("d", 24)
	html := fmt.Sprintf(`<div data-id="%s"></div><div data-id="%s"></div><div x="%s"></div><div y="%s"></div>`,
		tok25, tok50, tok51, short)

	ids, tier := NewScraper(DefaultTiers(25, 50)).FileIDs(html)

	assert.Equal(t, 1, tier)
	assert.ElementsMatch(t, []string{tok25, tok50}, ids)
}

func TestScraperIgnoresFallbackWhenPrimaryMatches(t *testing.T) {
	html := fileLink("primary") + `<div data-id="` + strings.Repeat("z", 30) + `"></div>`

	ids, tier := NewScraper(DefaultTiers(25, 50)).FileIDs(html)

	assert.Equal(t, 0, tier)
	assert.Equal(t, []string{"primary"}, ids)
}

func TestScraperNoMatches(t *testing.T) {
	ids, tier := NewScraper(DefaultTiers(25, 50)).FileIDs(`<html><title>x</title></html>`)

	assert.Empty(t, ids)
	assert.Equal(t, -1, tier)
}

func TestScraperDeduplicatesFallbackTokens(t *testing.T) {
	tok := strings.Repeat("q", 30)
	html := fmt.Sprintf(`"%s" "%s"`, tok, tok)

	ids, _ := NewScraper(DefaultTiers(25, 50)).FileIDs(html)

	assert.Equal(t, []string{tok}, ids)
}

type staticStrategy []string

func (s staticStrategy) Name() string { return "static" }
func (s staticStrategy) Extract(string) []string { return s }

func TestScraperCustomTiers(t *testing.T) {
	scraper := NewScraper([]Tier{
		{staticStrategy(nil)},
		{staticStrategy{"x", "y"}, staticStrategy{"y", "z"}},
	})

	ids, tier := scraper.FileIDs("")

	assert.Equal(t, 1, tier)
	assert.Equal(t, []string{"x", "y", "z"}, ids)
}

func TestScraperTierName(t *testing.T) {
	scraper := NewScraper(DefaultTiers(25, 50))

	assert.Equal(t, "file-link+thumbnail-link", scraper.TierName(0))
	assert.Equal(t, "quoted-token", scraper.TierName(1))
	assert.Equal(t, "", scraper.TierName(-1))
	assert.Equal(t, "", scraper.TierName(2))
}
