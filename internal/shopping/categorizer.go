package shopping

import "strings"

// categoryKeywords maps store sections to substrings of ingredient names.
// Order matters: the first matching section wins, so "almond milk" lands in
// dairy via "milk" before beverages gets a chance.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"produce", []string{
		"tomato", "onion", "garlic", "carrot", "potato", "lettuce", "spinach",
		"cucumber", "mushroom", "broccoli", "cauliflower", "cabbage", "celery",
		"lemon", "lime", "orange", "apple", "banana", "strawberry", "blueberry",
		"avocado", "ginger", "chili", "jalapeno", "bell pepper", "zucchini",
		"eggplant", "squash", "pumpkin", "corn", "peas", "beans", "lentils",
	}},
	{"dairy", []string{
		"cheese", "butter", "cream", "yogurt", "sour cream", "cottage cheese",
		"mozzarella", "cheddar", "parmesan", "feta", "ricotta", "mascarpone",
		"heavy cream", "half and half", "buttermilk", "greek yogurt", "milk",
	}},
	{"meat", []string{
		"chicken", "beef", "pork", "lamb", "turkey", "bacon", "ham", "sausage",
		"ground beef", "ground turkey", "ground pork", "steak", "chops",
		"roast", "breast", "thigh", "drumstick", "wing", "ribs", "tenderloin",
	}},
	{"seafood", []string{
		"salmon", "tuna", "shrimp", "crab", "lobster", "cod", "halibut",
		"tilapia", "mahi mahi", "scallops", "mussels", "clams", "oysters",
		"fish", "seafood",
	}},
	{"pantry", []string{
		"salt", "pepper", "oil", "vinegar", "rice", "pasta", "bread",
		"crackers", "cereal", "oats", "quinoa", "barley", "bulgur", "couscous",
		"noodles", "spaghetti", "macaroni", "penne", "fettuccine",
	}},
	{"spices", []string{
		"paprika", "cumin", "coriander", "turmeric", "cinnamon", "nutmeg",
		"cloves", "cardamom", "bay leaves", "sage", "marjoram", "tarragon",
		"dill", "chives", "parsley", "cilantro", "basil", "oregano", "thyme",
		"rosemary",
	}},
	{"baking", []string{
		"baking powder", "baking soda", "yeast", "vanilla", "cocoa",
		"chocolate", "nuts", "almonds", "walnuts", "pecans", "hazelnuts",
		"pistachios", "raisins", "dates", "coconut", "flour", "sugar",
		"brown sugar",
	}},
	{"frozen", []string{
		"frozen", "ice cream", "frozen vegetables", "frozen fruit",
		"frozen berries",
	}},
	{"beverages", []string{
		"juice", "wine", "beer", "soda", "water", "tea", "coffee",
		"coconut milk", "almond milk", "soy milk", "broth", "stock",
	}},
}

var categoryDisplayNames = map[string]string{
	"produce":   "Fresh Produce",
	"dairy":     "Dairy & Eggs",
	"meat":      "Meat & Poultry",
	"seafood":   "Seafood",
	"pantry":    "Pantry Staples",
	"spices":    "Spices & Herbs",
	"baking":    "Baking Supplies",
	"frozen":    "Frozen Foods",
	"beverages": "Beverages",
	"other":     "Other",
}

// Categorize assigns a store section to an ingredient name, falling back to
// "other" when no keyword matches.
func Categorize(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.category
			}
		}
	}
	return "other"
}

// CategoryDisplayName returns the user-facing name for a store section.
func CategoryDisplayName(category string) string {
	if name, ok := categoryDisplayNames[category]; ok {
		return name
	}
	if category == "" {
		return "Other"
	}
	return strings.ToUpper(category[:1]) + category[1:]
}
