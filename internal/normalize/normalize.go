// Package normalize turns raw, store-coded receipt strings into clean,
// human-readable ingredient names.
package normalize

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Rewrite converts receipt word order ("PEPPERS GREEN BELL") into natural
// phrasing, or fixes irregular singulars. From matches the whole
// upper-cased name; at most one rewrite applies, first match wins.
type Rewrite struct {
	From string
	To   string
}

// Tables holds the lookup data the normalizer runs on.
type Tables struct {
	// Prefixes are leading store/brand markers, stripped repeatedly
	// until none match.
	Prefixes []string
	// BrandCodes maps a full store code to its readable name; a hit
	// short-circuits the remaining stages.
	BrandCodes map[string]string
	// Rewrites are applied after abbreviation expansion, first match wins.
	Rewrites []Rewrite
	// Abbreviations expand standalone unit/quantity tokens (CT -> COUNT).
	Abbreviations map[string]string
}

// DefaultTables returns the built-in normalization data.
func DefaultTables() Tables {
	return Tables{
		Prefixes: []string{
			"PUBLIX ", "PUB ", "GREAT VALUE ", "GV ", "KRO ", "SB ", "365 ",
			"ORGANIC ", "NATURAL ",
		},
		BrandCodes: map[string]string{
			"HNZ KCHP":     "Ketchup",
			"HVR RNCH":     "Ranch Dressing",
			"JIF CRMY":     "Peanut Butter",
			"KRFT MAC CHS": "Macaroni & Cheese",
			"CHBNI YGRT":   "Greek Yogurt",
			"PHLD CRM CHS": "Cream Cheese",
			"TROP OJ":      "Orange Juice",
			"QKR OATS":     "Rolled Oats",
			"BRL OLV OIL":  "Olive Oil",
			"FRNCHS MSTRD": "Yellow Mustard",
		},
		Rewrites: []Rewrite{
			{"PEPPERS GREEN BELL", "GREEN BELL PEPPERS"},
			{"PEPPERS RED BELL", "RED BELL PEPPERS"},
			{"ONIONS YELLOW", "YELLOW ONIONS"},
			{"ONIONS RED", "RED ONIONS"},
			{"POTATOES RUSSET", "RUSSET POTATOES"},
			{"TOMATOES ROMA", "ROMA TOMATOES"},
			{"APPLES GALA", "GALA APPLES"},
			{"APPLES FUJI", "FUJI APPLES"},
			{"BANANA", "BANANAS"},
			{"APPLE", "APPLES"},
			{"EGG", "EGGS"},
			{"CARROT", "CARROTS"},
		},
		Abbreviations: map[string]string{
			"CT":      "COUNT",
			"LB":      "POUND",
			"LBS":     "POUNDS",
			"OZ":      "OUNCE",
			"GAL":     "GALLON",
			"QT":      "QUART",
			"PT":      "PINT",
			"DOZ":     "DOZEN",
			"PKG":     "PACKAGE",
			"EA":      "EACH",
			"WHT":     "WHITE",
			"WHL":     "WHOLE",
			"GRN":     "GREEN",
			"CHKN":    "CHICKEN",
			"CHZ":     "CHEESE",
			"BNLS":    "BONELESS",
			"SKNLS":   "SKINLESS",
			"GRND":    "GROUND",
			"VEG":     "VEGETABLE",
			"STRWBRY": "STRAWBERRY",
			"BTR":     "BUTTER",
			"CHOC":    "CHOCOLATE",
		},
	}
}

type abbrevRule struct {
	re   *regexp.Regexp
	repl string
}

// Normalizer is a pure, deterministic name cleaner. It never mutates its
// input and re-running it on its own output is a no-op.
type Normalizer struct {
	prefixes   []string
	brandCodes map[string]string
	rewrites   []Rewrite
	abbrevs    []abbrevRule
}

// New returns a normalizer over the default tables.
func New() *Normalizer {
	return FromTables(DefaultTables())
}

// FromTables builds a normalizer from explicit tables (used by the rules
// overlay). Abbreviations compile to word-boundary patterns so substrings
// inside other words are never corrupted.
func FromTables(t Tables) *Normalizer {
	keys := make([]string, 0, len(t.Abbreviations))
	for k := range t.Abbreviations {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	abbrevs := make([]abbrevRule, 0, len(keys))
	for _, k := range keys {
		abbrevs = append(abbrevs, abbrevRule{
			re:   regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToUpper(k)) + `\b`),
			repl: strings.ToUpper(t.Abbreviations[k]),
		})
	}
	return &Normalizer{
		prefixes:   t.Prefixes,
		brandCodes: t.BrandCodes,
		rewrites:   t.Rewrites,
		abbrevs:    abbrevs,
	}
}

// Normalize cleans a raw item name. Stages run in fixed order, each on
// the output of the previous: upper/trim, prefix strip, exact brand-code
// lookup (short-circuits), abbreviation expansion, rewrite rules,
// whitespace collapse and title case.
func (n *Normalizer) Normalize(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	// Strip until no prefix matches: stacked markers ("365 ORGANIC ...")
	// must not leave a residue a second pass would remove.
	for stripped := true; stripped; {
		stripped = false
		for _, p := range n.prefixes {
			if strings.HasPrefix(s, p) {
				s = strings.TrimSpace(strings.TrimPrefix(s, p))
				stripped = true
				break
			}
		}
	}

	if readable, ok := n.brandCodes[s]; ok {
		return readable
	}

	// Abbreviations expand before rewrites so a rewrite target hiding an
	// abbreviated token ("PEPPERS GRN BELL") matches on the first pass;
	// the reverse order only converges on a second application.
	for _, a := range n.abbrevs {
		s = a.re.ReplaceAllString(s, a.repl)
	}

	for _, r := range n.rewrites {
		if s == r.From {
			s = r.To
			break
		}
	}

	s = titleCase(collapseSpaces(s))
	if s == "" {
		// Prefix stripping can eat a name that was nothing but markers.
		// A non-blank alphabetic input must still produce something.
		return titleCase(collapseSpaces(strings.ToUpper(strings.TrimSpace(raw))))
	}
	return s
}

var reSpaces = regexp.MustCompile(`\s+`)

func collapseSpaces(s string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

func titleCase(s string) string {
	words := strings.Split(strings.ToLower(s), " ")
	for i, w := range words {
		r := []rune(w)
		if len(r) == 0 {
			continue
		}
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
