package constants

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestConstants(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Constants Suite")
}

var _ = Describe("Classifier", func() {
	var (
		classifier *Classifier
		name       string
		category   Category
	)

	BeforeEach(func() {
		classifier = NewClassifier(nil)
	})

	JustBeforeEach(func() {
		category = classifier.Classify(name)
	})

	When("the name is a fresh vegetable", func() {
		BeforeEach(func() {
			name = "Baby Spinach"
		})

		It("classifies as produce", func() {
			Expect(category).To(Equal(Produce))
		})
	})

	When("the name matches both produce and canned goods", func() {
		BeforeEach(func() {
			name = "Diced Tomatoes"
		})

		It("prefers produce because it is evaluated first", func() {
			Expect(category).To(Equal(Produce))
		})
	})

	When("the name is a dairy item", func() {
		BeforeEach(func() {
			name = "Whole Milk"
		})

		It("classifies as dairy", func() {
			Expect(category).To(Equal(Dairy))
		})
	})

	When("the name is a meat item", func() {
		BeforeEach(func() {
			name = "Chicken Breast"
		})

		It("classifies as protein", func() {
			Expect(category).To(Equal(Protein))
		})
	})

	When("the name is a condiment", func() {
		BeforeEach(func() {
			name = "Ketchup"
		})

		It("classifies as condiments", func() {
			Expect(category).To(Equal(Condiments))
		})
	})

	When("the name is a frozen item", func() {
		BeforeEach(func() {
			name = "Frozen Peas"
		})

		It("classifies as frozen", func() {
			Expect(category).To(Equal(Frozen))
		})
	})

	When("no keyword matches", func() {
		BeforeEach(func() {
			name = "Paper Towels"
		})

		It("falls back to Other", func() {
			Expect(category).To(Equal(Other))
		})
	})

	When("matching is case-insensitive", func() {
		BeforeEach(func() {
			name = "GALA APPLES"
		})

		It("still classifies as produce", func() {
			Expect(category).To(Equal(Produce))
		})
	})

	Describe("custom rule tables", func() {
		It("uses the supplied ordering instead of the default", func() {
			c := NewClassifier([]KeywordRule{
				{CannedGoods, []string{"tomato"}},
				{Produce, []string{"tomato"}},
			})
			Expect(c.Classify("Diced Tomatoes")).To(Equal(CannedGoods))
		})

		It("falls back to the defaults for an empty table", func() {
			c := NewClassifier([]KeywordRule{})
			Expect(c.Classify("Banana")).To(Equal(Produce))
		})
	})

	Describe("totality", func() {
		It("assigns some category to every name", func() {
			for _, n := range []string{"", "???", "Mystery Box", "Diced Tomatoes", "123"} {
				cat := classifier.Classify(n)
				_, known := ParseCategory(string(cat))
				Expect(known).To(BeTrue(), "name %q produced %q", n, cat)
			}
		})
	})
})

var _ = Describe("ParseCategory", func() {
	It("resolves labels case-insensitively", func() {
		cat, ok := ParseCategory("  dairy & eggs ")
		Expect(ok).To(BeTrue())
		Expect(cat).To(Equal(Dairy))
	})

	It("returns Other with ok=false for unknown labels", func() {
		cat, ok := ParseCategory("Gadgets")
		Expect(ok).To(BeFalse())
		Expect(cat).To(Equal(Other))
	})
})

var _ = Describe("AsStringSlice", func() {
	It("lists every category exactly once, Other last", func() {
		labels := AsStringSlice()
		Expect(labels).To(HaveLen(13))
		Expect(labels[0]).To(Equal("Produce"))
		Expect(labels[len(labels)-1]).To(Equal("Other"))
		seen := map[string]bool{}
		for _, l := range labels {
			Expect(seen[l]).To(BeFalse(), "duplicate label %q", l)
			seen[l] = true
		}
	})
})
