package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractVendor_KnownVendorTable(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantVendor   string
		wantCategory string
	}{
		{
			name:         "walmart anywhere in text",
			text:         "WALMART SUPERCENTER\n123 Main St\nTOTAL 42.17",
			wantVendor:   "Walmart",
			wantCategory: "Grocery",
		},
		{
			name:         "gas station brand",
			text:         "SHELL OIL 57442\nPUMP 3\nTOTAL 38.00",
			wantVendor:   "Shell",
			wantCategory: "Petrol",
		},
		{
			name:         "multi word vendor",
			text:         "thanks for shopping at home depot today",
			wantVendor:   "Home Depot",
			wantCategory: "Home",
		},
		{
			name:         "fitness chain",
			text:         "PLANET FITNESS\nMONTHLY DUES",
			wantVendor:   "Planet Fitness",
			wantCategory: "Gym",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vendor, category := ExtractVendor(tt.text)
			assert.Equal(t, tt.wantVendor, vendor)
			assert.Equal(t, tt.wantCategory, category)
		})
	}
}

func TestExtractVendor_HeuristicFirstLine(t *testing.T) {
	vendor, category := ExtractVendor("JOES DINER\n42 Elm St\nTOTAL 18.50")
	assert.Equal(t, "Joes Diner", vendor)
	assert.Empty(t, category)
}

func TestExtractVendor_SkipsBoilerplate(t *testing.T) {
	vendor, category := ExtractVendor("RECEIPT\nTHANK YOU\nCASHIER 04\nMAIN STREET MARKET\nTOTAL 9.99")
	assert.Equal(t, "Main Street Market", vendor)
	assert.Empty(t, category)
}

func TestExtractVendor_NothingPlausible(t *testing.T) {
	vendor, category := ExtractVendor("RECEIPT\n#1234\nTEL 555-0199\n")
	assert.Empty(t, vendor)
	assert.Empty(t, category)
}

func TestSuggestCategory(t *testing.T) {
	assert.Equal(t, "Food", SuggestCategory("Corner Pizza House"))
	assert.Equal(t, "Gym", SuggestCategory("Downtown Fitness Club"))
	assert.Equal(t, "Extra", SuggestCategory("Quantum Widgets Inc"))
}
