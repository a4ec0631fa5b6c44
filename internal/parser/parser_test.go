package parser

import (
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pantrykeep/receipt-scan/constants"
)

func TestParser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Parser Suite")
}

var _ = Describe("Parser", func() {
	var (
		p       *Parser
		rawText string
		items   []Item
	)

	BeforeEach(func() {
		p = New(nil, nil)
	})

	JustBeforeEach(func() {
		items = p.Parse(rawText)
	})

	When("a line is name plus price", func() {
		BeforeEach(func() {
			rawText = "PUB DICED TOMATOES 2.99"
		})

		It("extracts one item", func() {
			Expect(items).To(HaveLen(1))
		})

		It("normalizes the name", func() {
			Expect(items[0].Name).To(Equal("Diced Tomatoes"))
		})

		It("defaults the quantity to one", func() {
			Expect(items[0].Quantity).To(Equal("1"))
		})

		It("captures the price", func() {
			Expect(items[0].Price).To(HaveValue(Equal(2.99)))
		})

		It("classifies the normalized name", func() {
			Expect(items[0].Category).To(Equal(constants.Produce))
		})

		It("marks pattern matches as high confidence", func() {
			Expect(items[0].Confidence).To(Equal(constants.ConfidenceHigh))
		})
	})

	When("a line is an irregular singular with a price", func() {
		BeforeEach(func() {
			rawText = "BANANA 0.59"
		})

		It("pluralizes the name", func() {
			Expect(items).To(HaveLen(1))
			Expect(items[0].Name).To(Equal("Bananas"))
			Expect(items[0].Quantity).To(Equal("1"))
			Expect(items[0].Price).To(HaveValue(Equal(0.59)))
		})
	})

	When("a line carries a weight quantity", func() {
		BeforeEach(func() {
			rawText = "CHKN BREAST 1.8 LB 8.93"
		})

		It("keeps the unit in the quantity and expands the name", func() {
			Expect(items).To(HaveLen(1))
			Expect(items[0].Name).To(Equal("Chicken Breast"))
			Expect(items[0].Quantity).To(Equal("1.8 LB"))
			Expect(items[0].Price).To(HaveValue(Equal(8.93)))
			Expect(items[0].Category).To(Equal(constants.Protein))
		})
	})

	When("a line uses at-sign unit pricing", func() {
		BeforeEach(func() {
			rawText = "BANANAS 3 @ 0.59 1.77"
		})

		It("takes the extended price, not the unit price", func() {
			Expect(items).To(HaveLen(1))
			Expect(items[0].Quantity).To(Equal("3"))
			Expect(items[0].Price).To(HaveValue(Equal(1.77)))
		})
	})

	When("a line is name, count and price", func() {
		BeforeEach(func() {
			rawText = "YOGURT CUPS 4 5.00"
		})

		It("captures the count as quantity", func() {
			Expect(items).To(HaveLen(1))
			Expect(items[0].Name).To(Equal("Yogurt Cups"))
			Expect(items[0].Quantity).To(Equal("4"))
		})
	})

	When("the text is receipt metadata", func() {
		BeforeEach(func() {
			rawText = strings.Join([]string{
				"SUBTOTAL 39.90",
				"TOTAL 42.10",
				"SALES TAX 2.20",
				"VISA ****1234",
				"CHANGE DUE 0.00",
				"THANK YOU FOR SHOPPING",
				"WWW.GROCER.COM",
			}, "\n")
		})

		It("yields no items", func() {
			Expect(items).To(BeEmpty())
		})
	})

	When("an item name contains a metadata token as a substring", func() {
		BeforeEach(func() {
			rawText = "CARDAMOM 3.99\nTELERA ROLLS 2.49"
		})

		It("keeps the items; short tokens only skip whole words", func() {
			Expect(items).To(HaveLen(2))
			Expect(items[0].Name).To(Equal("Cardamom"))
			Expect(items[1].Name).To(Equal("Telera Rolls"))
		})
	})

	When("a short metadata token stands alone", func() {
		BeforeEach(func() {
			rawText = "CASH 20.00\nCARD ****1234\nAUTH CODE 123456"
		})

		It("skips the lines", func() {
			Expect(items).To(BeEmpty())
		})
	})

	When("a grocery line has no structured shape", func() {
		BeforeEach(func() {
			rawText = "MILK ON SALE TODAY"
		})

		It("extracts via the keyword fallback", func() {
			Expect(items).To(HaveLen(1))
		})

		It("marks fallback matches as medium confidence", func() {
			Expect(items[0].Confidence).To(Equal(constants.ConfidenceMedium))
		})

		It("leaves the price unset", func() {
			Expect(items[0].Price).To(BeNil())
		})

		It("defaults the quantity", func() {
			Expect(items[0].Quantity).To(Equal("1"))
		})
	})

	When("a line has no grocery vocabulary and no price", func() {
		BeforeEach(func() {
			rawText = "HELLO WORLD"
		})

		It("yields nothing", func() {
			Expect(items).To(BeEmpty())
		})
	})

	When("a line is digits only", func() {
		BeforeEach(func() {
			rawText = "12345 67.89"
		})

		It("yields nothing", func() {
			Expect(items).To(BeEmpty())
		})
	})

	When("a line is too short or too long", func() {
		BeforeEach(func() {
			rawText = "AB\n" + strings.Repeat("MILK ", 25) + "2.99"
		})

		It("drops both", func() {
			Expect(items).To(BeEmpty())
		})
	})

	When("the same line repeats", func() {
		BeforeEach(func() {
			rawText = "WHOLE MILK 3.49\nWHOLE MILK 3.49"
		})

		It("keeps both entries; merging is the caller's decision", func() {
			Expect(items).To(HaveLen(2))
		})
	})

	When("parsing a full receipt", func() {
		BeforeEach(func() {
			rawText = strings.Join([]string{
				"PUBLIX",
				"SUPERMARKET #442",
				"BANANAS 2 LB 1.18",
				"WHOLE MILK 1 GAL 3.49",
				"PUB DICED TOMATOES 2.99",
				"HNZ KCHP 3.29",
				"SUBTOTAL 10.95",
				"TOTAL 11.72",
			}, "\n")
		})

		It("extracts the item lines in order", func() {
			Expect(items).To(HaveLen(4))
			Expect(items[0].Name).To(Equal("Bananas"))
			Expect(items[1].Name).To(Equal("Whole Milk"))
			Expect(items[2].Name).To(Equal("Diced Tomatoes"))
			Expect(items[3].Name).To(Equal("Ketchup"))
		})

		It("classifies every item", func() {
			Expect(items[0].Category).To(Equal(constants.Produce))
			Expect(items[1].Category).To(Equal(constants.Dairy))
			Expect(items[2].Category).To(Equal(constants.Produce))
			Expect(items[3].Category).To(Equal(constants.Condiments))
		})
	})
})
