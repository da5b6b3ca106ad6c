package receipt

import (
	"regexp"
	"strings"

	"github.com/wisefig/ledgerlens/internal/model"
)

// vendorEntry maps a known merchant name to its category.
type vendorEntry struct {
	name     string
	category string
}

// knownVendors is an ordered lookup table of common merchants. Order
// matters: the first entry whose name appears in the text wins, so more
// common merchants come first within each group.
var knownVendors = []vendorEntry{
	{"walmart", "Grocery"},
	{"kroger", "Grocery"},
	{"safeway", "Grocery"},
	{"publix", "Grocery"},
	{"whole foods", "Grocery"},
	{"costco", "Grocery"},
	{"target", "Grocery"},
	{"mcdonalds", "Food"},
	{"subway", "Food"},
	{"starbucks", "Food"},
	{"pizza", "Food"},
	{"burger", "Food"},
	{"kfc", "Food"},
	{"taco bell", "Food"},
	{"shell", "Petrol"},
	{"exxon", "Petrol"},
	{"bp", "Petrol"},
	{"chevron", "Petrol"},
	{"mobil", "Petrol"},
	{"texaco", "Petrol"},
	{"speedway", "Petrol"},
	{"home depot", "Home"},
	{"lowes", "Home"},
	{"ikea", "Home"},
	{"ace hardware", "Home"},
	{"planet fitness", "Gym"},
	{"la fitness", "Gym"},
	{"gold's gym", "Gym"},
	{"24 hour fitness", "Gym"},
}

// boilerplateWords disqualify a line from being treated as a merchant name
// when falling back to the top-of-receipt heuristic.
var boilerplateWords = []string{
	"receipt", "invoice", "thank", "welcome", "order",
	"cashier", "register", "store", "tel", "phone", "fax",
}

var nonLetters = regexp.MustCompile(`[^a-zA-Z\s]`)

const (
	vendorScanLines = 5
	minVendorLen    = 4
	maxVendorLen    = 30
)

// ExtractVendor identifies the merchant on a receipt. It first checks the
// known-vendor table against the full text; failing that, it falls back to
// the first plausible line near the top of the receipt, which on most
// receipts carries the store name. The second return is the category
// suggested by the table, empty when the vendor came from the heuristic.
func ExtractVendor(text string) (vendor, category string) {
	lower := strings.ToLower(text)
	for _, entry := range knownVendors {
		if strings.Contains(lower, entry.name) {
			return titleCase(entry.name), entry.category
		}
	}

	lines := strings.Split(text, "\n")
	scanned := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if scanned >= vendorScanLines {
			break
		}
		scanned++

		clean := strings.TrimSpace(nonLetters.ReplaceAllString(line, ""))
		if len(clean) < minVendorLen || len(clean) > maxVendorLen {
			continue
		}
		if isBoilerplate(clean) {
			continue
		}
		return titleCase(clean), ""
	}

	return "", ""
}

// SuggestCategory returns the expense category for a vendor that did not
// match the known-vendor table, using the keyword seeds as a bucket lookup.
func SuggestCategory(vendor string) string {
	lower := strings.ToLower(vendor)
	for _, def := range model.CategoriesFor(model.KindExpense) {
		for _, keyword := range def.Keywords {
			if strings.Contains(lower, keyword) {
				return def.Name
			}
		}
	}
	return model.FallbackExpenseCategory
}

func isBoilerplate(line string) bool {
	lower := strings.ToLower(line)
	for _, word := range boilerplateWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// titleCase uppercases the first letter of each word. Merchant names are
// short enough that the simple per-word rule reads fine.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
