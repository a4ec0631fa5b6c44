package scan

import (
	"github.com/pantrykeep/receipt-scan/constants"
	"github.com/pantrykeep/receipt-scan/internal/parser"
)

// mockText is the pretend recognition output that accompanies demo items,
// so the UI has something to show in the raw-text view.
const mockText = `PUBLIX
BANANAS 2 LB 1.18
WHOLE MILK 1 GAL 3.49
LARGE EGGS 12 CT 2.99
WHEAT BREAD 2.49
CHKN BREAST 1.8 LB 8.93
BABY SPINACH 3.99
PUB DICED TOMATOES 2 3.78`

// MockItems returns the fixed demo-mode checklist. The set is stable so
// screenshots and UI tests are reproducible.
func MockItems() []parser.Item {
	return []parser.Item{
		{Name: "Bananas", Quantity: "2 LB", Price: fp(1.18), Category: constants.Produce, Confidence: constants.ConfidenceHigh},
		{Name: "Whole Milk", Quantity: "1 GAL", Price: fp(3.49), Category: constants.Dairy, Confidence: constants.ConfidenceHigh},
		{Name: "Large Eggs", Quantity: "12 CT", Price: fp(2.99), Category: constants.Dairy, Confidence: constants.ConfidenceHigh},
		{Name: "Wheat Bread", Quantity: "1", Price: fp(2.49), Category: constants.Grains, Confidence: constants.ConfidenceHigh},
		{Name: "Chicken Breast", Quantity: "1.8 LB", Price: fp(8.93), Category: constants.Protein, Confidence: constants.ConfidenceHigh},
		{Name: "Baby Spinach", Quantity: "1", Price: fp(3.99), Category: constants.Produce, Confidence: constants.ConfidenceHigh},
		{Name: "Diced Tomatoes", Quantity: "2", Price: fp(3.78), Category: constants.Produce, Confidence: constants.ConfidenceHigh},
	}
}

func fp(v float64) *float64 {
	return &v
}
