package drive

import (
	"fmt"
	"regexp"
	"strings"
)

// Strategy pulls candidate file IDs out of embedded folder view markup.
type Strategy interface {
	Name() string
	Extract(html string) []string
}

// Tier groups strategies whose results are unioned. A Scraper stops at the
// first tier that yields anything.
type Tier []Strategy

type patternStrategy struct {
	name string
	re   *regexp.Regexp
}

// PatternStrategy returns every first capture group of re.
func PatternStrategy(name, expr string) Strategy {
	return &patternStrategy{name: name, re: regexp.MustCompile(expr)}
}

func (s *patternStrategy) Name() string { return s.name }

func (s *patternStrategy) Extract(html string) []string {
	var ids []string
	for _, m := range s.re.FindAllStringSubmatch(html, -1) {
		ids = append(ids, m[1])
	}
	return ids
}

type quotedTokenStrategy struct {
	re       *regexp.Regexp
	min, max int
}

// QuotedTokenStrategy matches any double-quoted ID-alphabet token of at
// least min characters and keeps those no longer than max.
func QuotedTokenStrategy(min, max int) Strategy {
	return &quotedTokenStrategy{
		re:  regexp.MustCompile(fmt.Sprintf(`"([a-zA-Z0-9_-]{%d,})"`, min)),
		min: min,
		max: max,
	}
}

func (s *quotedTokenStrategy) Name() string { return "quoted-token" }

func (s *quotedTokenStrategy) Extract(html string) []string {
	var ids []string
	for _, m := range s.re.FindAllStringSubmatch(html, -1) {
		if n := len(m[1]); n >= s.min && n <= s.max {
			ids = append(ids, m[1])
		}
	}
	return ids
}

// DefaultTiers are the link patterns Drive uses in the embedded folder view,
// followed by the quoted-token fallback.
func DefaultTiers(minIDLength, maxIDLength int) []Tier {
	return []Tier{
		{
			PatternStrategy("file-link", `https://drive\.google\.com/file/d/([a-zA-Z0-9_-]+)`),
			PatternStrategy("thumbnail-link", `https://drive\.google\.com/thumbnail\?id=([a-zA-Z0-9_-]+)`),
		},
		{
			QuotedTokenStrategy(minIDLength, maxIDLength),
		},
	}
}

type Scraper struct {
	tiers []Tier
}

func NewScraper(tiers []Tier) *Scraper {
	return &Scraper{tiers: tiers}
}

// FileIDs returns the deduplicated IDs of the first productive tier in
// first-seen order, and the index of that tier (-1 when nothing matched).
func (s *Scraper) FileIDs(html string) ([]string, int) {
	for i, tier := range s.tiers {
		seen := make(map[string]bool)
		var ids []string
		for _, strategy := range tier {
			for _, id := range strategy.Extract(html) {
				if !seen[id] {
					seen[id] = true
					ids = append(ids, id)
				}
			}
		}
		if len(ids) > 0 {
			return ids, i
		}
	}
	return nil, -1
}

// TierName names the strategies of tier i joined with "+", or "" when i is
// out of range.
func (s *Scraper) TierName(i int) string {
	if i < 0 || i >= len(s.tiers) {
		return ""
	}
	names := make([]string, 0, len(s.tiers[i]))
	for _, strategy := range s.tiers[i] {
		names = append(names, strategy.Name())
	}
	return strings.Join(names, "+")
}
