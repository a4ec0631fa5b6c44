package normalize

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pantrykeep/receipt-scan/constants"
)

// RulesFile is the optional YAML overlay that extends the built-in
// normalization tables and may redefine the category keyword order. The
// category priority on overlapping terms is policy, not accident, so it
// lives in data rather than code.
type RulesFile struct {
	Prefixes      []string          `yaml:"prefixes"`
	BrandCodes    map[string]string `yaml:"brand_codes"`
	Rewrites      []RewriteEntry    `yaml:"rewrites"`
	Abbreviations map[string]string `yaml:"abbreviations"`
	Categories    []CategoryEntry   `yaml:"categories"`
}

type RewriteEntry struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

type CategoryEntry struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// LoadRules reads and decodes an overlay file.
func LoadRules(path string) (RulesFile, error) {
	var f RulesFile
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("decode rules file: %w", err)
	}
	return f, nil
}

// MergeTables layers the overlay on top of base: prefixes and rewrites
// are prepended (overlay entries win on order), maps are overridden key
// by key.
func (f RulesFile) MergeTables(base Tables) Tables {
	merged := Tables{
		Prefixes:      append(append([]string(nil), f.Prefixes...), base.Prefixes...),
		BrandCodes:    make(map[string]string, len(base.BrandCodes)+len(f.BrandCodes)),
		Abbreviations: make(map[string]string, len(base.Abbreviations)+len(f.Abbreviations)),
	}
	for k, v := range base.BrandCodes {
		merged.BrandCodes[k] = v
	}
	for k, v := range f.BrandCodes {
		merged.BrandCodes[k] = v
	}
	for _, r := range f.Rewrites {
		merged.Rewrites = append(merged.Rewrites, Rewrite{From: r.From, To: r.To})
	}
	merged.Rewrites = append(merged.Rewrites, base.Rewrites...)
	for k, v := range base.Abbreviations {
		merged.Abbreviations[k] = v
	}
	for k, v := range f.Abbreviations {
		merged.Abbreviations[k] = v
	}
	return merged
}

// CategoryRules converts the overlay's category section to an ordered
// classifier table. Unknown category names are rejected so a typo in the
// overlay cannot silently invent a taxonomy entry.
func (f RulesFile) CategoryRules() ([]constants.KeywordRule, error) {
	if len(f.Categories) == 0 {
		return nil, nil
	}
	rules := make([]constants.KeywordRule, 0, len(f.Categories))
	for _, entry := range f.Categories {
		cat, ok := constants.ParseCategory(entry.Name)
		if !ok {
			return nil, fmt.Errorf("unknown category %q in rules file", entry.Name)
		}
		rules = append(rules, constants.KeywordRule{Category: cat, Keywords: entry.Keywords})
	}
	return rules, nil
}
