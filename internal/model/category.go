package model

// CategoryDefinition describes one member of the closed label space for a
// transaction kind: its name, the keywords the lexical scorer matches
// against, and the descriptive phrases the semantic scorer embeds.
type CategoryDefinition struct {
	Name     string
	Keywords []string
	Context  []string
}

// Declaration order matters: the lexical scorer breaks score ties by
// iteration order, first-declared wins. The order below is reproducible,
// not semantically meaningful.
var expenseCategories = []CategoryDefinition{
	{
		Name:     "Rent",
		Keywords: []string{"rent", "apartment", "house payment", "mortgage", "housing"},
		Context:  []string{"monthly housing payment", "apartment lease", "mortgage installment"},
	},
	{
		Name:     "Grocery",
		Keywords: []string{"grocery", "supermarket", "walmart", "costco", "food shopping", "kroger", "safeway"},
		Context:  []string{"buying groceries at a supermarket", "weekly food shopping trip"},
	},
	{
		Name:     "Food",
		Keywords: []string{"restaurant", "pizza", "mcdonalds", "subway", "starbucks", "coffee", "lunch", "dinner", "cafe"},
		Context:  []string{"eating out at a restaurant", "coffee shop purchase", "fast food meal"},
	},
	{
		Name:     "Petrol",
		Keywords: []string{"gas", "fuel", "petrol", "shell", "exxon", "bp", "chevron", "gasoline"},
		Context:  []string{"filling up the car at a gas station", "fuel for the vehicle"},
	},
	{
		Name:     "Home",
		Keywords: []string{"furniture", "home depot", "ikea", "home improvement", "appliances", "cleaning supplies"},
		Context:  []string{"furniture or appliances for the house", "home improvement supplies"},
	},
	{
		Name:     "Gym",
		Keywords: []string{"gym", "fitness", "planet fitness", "membership", "workout", "yoga"},
		Context:  []string{"gym membership fee", "fitness class or workout"},
	},
	{
		Name:     "Mobile",
		Keywords: []string{"phone", "mobile", "verizon", "att", "tmobile", "cell phone", "smartphone"},
		Context:  []string{"monthly cell phone bill", "mobile carrier payment"},
	},
	{
		Name:     "Extra",
		Keywords: []string{"entertainment", "movie", "shopping", "amazon", "miscellaneous"},
		Context:  []string{"entertainment or miscellaneous shopping", "online shopping order"},
	},
	{
		Name:     "Insurance",
		Keywords: []string{"insurance", "health insurance", "car insurance", "life insurance"},
		Context:  []string{"insurance premium payment"},
	},
	{
		Name:     "Tuition",
		Keywords: []string{"tuition", "school", "education", "college", "university", "course"},
		Context:  []string{"school or university tuition payment", "education course fee"},
	},
}

var incomeCategories = []CategoryDefinition{
	{
		Name:     "UCO",
		Keywords: []string{"uco", "university", "school payment", "student payment"},
		Context:  []string{"payment from the university", "school related income"},
	},
	{
		Name:     "GONG",
		Keywords: []string{"gong", "private", "freelance", "consulting", "work", "job"},
		Context:  []string{"freelance or consulting income", "private contract work payment"},
	},
}

// Fallback labels guarantee the decision engine always produces a category
// for well-formed input.
const (
	// FallbackExpenseCategory is assigned when no expense signal matches.
	FallbackExpenseCategory = "Extra"
	// FallbackIncomeCategory is the generic income catch-all.
	FallbackIncomeCategory = "GONG"
)

// CategoriesFor returns the ordered category definitions for a kind.
func CategoriesFor(kind TransactionKind) []CategoryDefinition {
	switch kind {
	case KindIncome:
		return incomeCategories
	default:
		return expenseCategories
	}
}

// FallbackCategory returns the kind's catch-all label.
func FallbackCategory(kind TransactionKind) string {
	if kind == KindIncome {
		return FallbackIncomeCategory
	}
	return FallbackExpenseCategory
}

// IsValidCategory reports whether name belongs to the kind's label space.
func IsValidCategory(kind TransactionKind, name string) bool {
	for _, def := range CategoriesFor(kind) {
		if def.Name == name {
			return true
		}
	}
	return false
}

// CategoryNames returns the label space for a kind in declaration order.
func CategoryNames(kind TransactionKind) []string {
	defs := CategoriesFor(kind)
	names := make([]string, len(defs))
	for i, def := range defs {
		names[i] = def.Name
	}
	return names
}
