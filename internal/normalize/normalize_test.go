package normalize

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestNormalize(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Normalize Suite")
}

var _ = Describe("Normalizer", func() {
	var (
		normalizer *Normalizer
		input      string
		output     string
	)

	BeforeEach(func() {
		normalizer = New()
	})

	JustBeforeEach(func() {
		output = normalizer.Normalize(input)
	})

	When("the input is empty", func() {
		BeforeEach(func() {
			input = ""
		})

		It("returns an empty string", func() {
			Expect(output).To(Equal(""))
		})
	})

	When("the input is only whitespace", func() {
		BeforeEach(func() {
			input = "   \t  "
		})

		It("returns an empty string", func() {
			Expect(output).To(Equal(""))
		})
	})

	When("the name carries a store prefix", func() {
		BeforeEach(func() {
			input = "PUB DICED TOMATOES"
		})

		It("strips the prefix and title-cases the rest", func() {
			Expect(output).To(Equal("Diced Tomatoes"))
		})
	})

	When("the name carries a store-brand prefix", func() {
		BeforeEach(func() {
			input = "GV WHOLE MILK"
		})

		It("strips the prefix", func() {
			Expect(output).To(Equal("Whole Milk"))
		})
	})

	When("the name is a known brand code", func() {
		BeforeEach(func() {
			input = "HNZ KCHP"
		})

		It("resolves the readable name", func() {
			Expect(output).To(Equal("Ketchup"))
		})
	})

	When("a brand code follows a store prefix", func() {
		BeforeEach(func() {
			input = "PUBLIX HNZ KCHP"
		})

		It("still resolves the readable name", func() {
			Expect(output).To(Equal("Ketchup"))
		})
	})

	When("the name uses inverted receipt word order", func() {
		BeforeEach(func() {
			input = "PEPPERS GREEN BELL"
		})

		It("rewrites to natural phrasing", func() {
			Expect(output).To(Equal("Green Bell Peppers"))
		})
	})

	When("the name is an irregular singular", func() {
		BeforeEach(func() {
			input = "BANANA"
		})

		It("pluralizes it", func() {
			Expect(output).To(Equal("Bananas"))
		})
	})

	When("a reorder target hides behind an abbreviation", func() {
		BeforeEach(func() {
			input = "PEPPERS GRN BELL"
		})

		It("expands first so the rewrite applies on the first pass", func() {
			Expect(output).To(Equal("Green Bell Peppers"))
		})
	})

	When("the name contains abbreviations", func() {
		BeforeEach(func() {
			input = "WHL WHT BREAD"
		})

		It("expands each standalone token", func() {
			Expect(output).To(Equal("Whole White Bread"))
		})
	})

	When("an abbreviation appears inside a longer word", func() {
		BeforeEach(func() {
			input = "CONCENTRATE"
		})

		It("is left intact", func() {
			Expect(output).To(Equal("Concentrate"))
		})
	})

	When("the name has messy spacing and case", func() {
		BeforeEach(func() {
			input = "  baby   spinach "
		})

		It("collapses whitespace and title-cases", func() {
			Expect(output).To(Equal("Baby Spinach"))
		})
	})

	Describe("idempotence", func() {
		corpus := []string{
			"PUB DICED TOMATOES",
			"GV WHOLE MILK",
			"HNZ KCHP",
			"PEPPERS GREEN BELL",
			"PEPPERS GRN BELL",
			"BANANA",
			"WHL WHT BREAD",
			"CHKN BREAST",
			"LARGE EGGS 12 CT",
			"QKR OATS",
			"baby spinach",
			"STRWBRY YOGURT",
			"365 ORGANIC ALMOND BTR",
		}

		It("is a no-op on its own output", func() {
			n := New()
			for _, raw := range corpus {
				once := n.Normalize(raw)
				Expect(n.Normalize(once)).To(Equal(once), "input %q", raw)
			}
		})

		It("never maps a non-blank name to empty", func() {
			n := New()
			for _, raw := range corpus {
				Expect(n.Normalize(raw)).NotTo(BeEmpty(), "input %q", raw)
			}
		})
	})
})

var _ = Describe("RulesFile", func() {
	var (
		rules RulesFile
		err   error
	)

	Describe("LoadRules", func() {
		var path string

		JustBeforeEach(func() {
			rules, err = LoadRules(path)
		})

		When("the file is valid YAML", func() {
			BeforeEach(func() {
				dir := GinkgoT().TempDir()
				path = filepath.Join(dir, "rules.yaml")
				content := []byte(`
prefixes:
  - "WEGMANS "
brand_codes:
  "NTLA HZLNT": "Hazelnut Spread"
rewrites:
  - from: "ONIONS SWEET"
    to: "SWEET ONIONS"
abbreviations:
  BNLSS: BONELESS
categories:
  - name: Produce
    keywords: ["yuzu"]
`)
				Expect(os.WriteFile(path, content, 0o600)).To(Succeed())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("decodes every section", func() {
				Expect(rules.Prefixes).To(Equal([]string{"WEGMANS "}))
				Expect(rules.BrandCodes).To(HaveKeyWithValue("NTLA HZLNT", "Hazelnut Spread"))
				Expect(rules.Rewrites).To(HaveLen(1))
				Expect(rules.Abbreviations).To(HaveKeyWithValue("BNLSS", "BONELESS"))
				Expect(rules.Categories).To(HaveLen(1))
			})
		})

		When("the file does not exist", func() {
			BeforeEach(func() {
				path = filepath.Join(GinkgoT().TempDir(), "missing.yaml")
			})

			It("returns the error", func() {
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("MergeTables", func() {
		BeforeEach(func() {
			rules = RulesFile{
				Prefixes:   []string{"WEGMANS "},
				BrandCodes: map[string]string{"HNZ KCHP": "Tomato Ketchup"},
				Rewrites:   []RewriteEntry{{From: "ONIONS SWEET", To: "SWEET ONIONS"}},
			}
		})

		It("prepends overlay prefixes", func() {
			merged := rules.MergeTables(DefaultTables())
			Expect(merged.Prefixes[0]).To(Equal("WEGMANS "))
		})

		It("lets overlay brand codes override the defaults", func() {
			merged := rules.MergeTables(DefaultTables())
			Expect(merged.BrandCodes["HNZ KCHP"]).To(Equal("Tomato Ketchup"))
		})

		It("evaluates overlay rewrites first", func() {
			n := FromTables(rules.MergeTables(DefaultTables()))
			Expect(n.Normalize("WEGMANS ONIONS SWEET")).To(Equal("Sweet Onions"))
		})
	})

	Describe("CategoryRules", func() {
		When("a category name is unknown", func() {
			BeforeEach(func() {
				rules = RulesFile{Categories: []CategoryEntry{{Name: "Gadgets", Keywords: []string{"widget"}}}}
			})

			It("returns the error", func() {
				_, err = rules.CategoryRules()
				Expect(err).To(HaveOccurred())
			})
		})

		When("no categories are declared", func() {
			BeforeEach(func() {
				rules = RulesFile{}
			})

			It("returns nil so the defaults stay in effect", func() {
				out, err := rules.CategoryRules()
				Expect(err).NotTo(HaveOccurred())
				Expect(out).To(BeNil())
			})
		})
	})
})
