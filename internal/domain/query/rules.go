package query

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind groups rules. At most one rule of each kind fires per text.
type Kind string

// Rule kinds in evaluation order.
const (
	KindTheme         Kind = "theme"
	KindArtist        Kind = "artist"
	KindGenericArtist Kind = "generic_artist"
	KindPeriod        Kind = "period"
)

var (
	decadeRe    = regexp.MustCompile(`(?i)\b(\d{4})s\b`)
	yearRangeRe = regexp.MustCompile(`\b(\d{4})-(\d{4})\b`)
)

// YearRange is an inclusive span of years.
type YearRange struct {
	Start int
	End   int
}

// String formats the range as used in search strings.
func (y YearRange) String() string {
	return strconv.Itoa(y.Start) + "-" + strconv.Itoa(y.End)
}

// Matches collects what the rules detected in a text.
type Matches struct {
	Theme         *Theme
	Artist        *Artist
	GenericArtist string
	// Decade is set when a "1640s"-style decade was found.
	Decade *YearRange
	// Period is true for any time-period query (decade, year range or "century").
	Period bool
	Fired  []string
}

func (m *Matches) has(k Kind) bool {
	switch k {
	case KindTheme:
		return m.Theme != nil
	case KindArtist, KindGenericArtist:
		return m.Artist != nil || m.GenericArtist != ""
	case KindPeriod:
		return m.Period
	}
	return false
}

// Rule is one entry of the ordered rule list: a matcher and the action it applies.
type Rule struct {
	Name  string
	Kind  Kind
	Apply func(lower string, m *Matches) bool
}

// Compile turns the table into the ordered rule list:
// themes, named artists, generic "by <Name>", then time periods.
func (t *Table) Compile() []Rule {
	var rules []Rule

	for i := range t.Themes {
		th := &t.Themes[i]
		rules = append(rules, Rule{
			Name: "theme:" + th.Name,
			Kind: KindTheme,
			Apply: func(lower string, m *Matches) bool {
				if !containsAny(lower, th.Keywords) {
					return false
				}
				m.Theme = th
				return true
			},
		})
	}

	for i := range t.Artists {
		a := &t.Artists[i]
		rules = append(rules, Rule{
			Name: "artist:" + a.Name,
			Kind: KindArtist,
			Apply: func(lower string, m *Matches) bool {
				if !containsAny(lower, a.Keywords) {
					return false
				}
				m.Artist = a
				return true
			},
		})
	}

	if t.genericRe != nil {
		re := t.genericRe
		stop := t.GenericArtist.Stopwords
		rules = append(rules, Rule{
			Name: "generic_artist",
			Kind: KindGenericArtist,
			Apply: func(lower string, m *Matches) bool {
				sub := re.FindStringSubmatch(lower)
				if len(sub) < 2 || sub[1] == "" || containsWord(stop, sub[1]) {
					return false
				}
				m.GenericArtist = capitalize(sub[1])
				return true
			},
		})
	}

	rules = append(rules, Rule{
		Name:  "period",
		Kind:  KindPeriod,
		Apply: applyPeriod,
	})

	return rules
}

func applyPeriod(lower string, m *Matches) bool {
	if sub := decadeRe.FindStringSubmatch(lower); sub != nil {
		start, err := strconv.Atoi(sub[1])
		if err == nil {
			m.Decade = &YearRange{Start: start, End: start + 9}
			m.Period = true
			return true
		}
	}
	if yearRangeRe.MatchString(lower) || strings.Contains(lower, "century") {
		m.Period = true
		return true
	}
	return false
}

// Evaluate runs the rules over text in order. Within a kind the first match wins.
func Evaluate(rules []Rule, text string) Matches {
	lower := strings.ToLower(text)
	var m Matches
	for _, r := range rules {
		if m.has(r.Kind) {
			continue
		}
		if r.Apply(lower, &m) {
			m.Fired = append(m.Fired, r.Name)
		}
	}
	return m
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func containsWord(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
