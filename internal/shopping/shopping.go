package shopping

import (
	"fmt"
	"time"
)

// Item is a single shopping list entry.
type Item struct {
	Name      string `json:"name"`
	Quantity  string `json:"quantity"`
	Unit      string `json:"unit"`
	Category  string `json:"category,omitempty"`
	Purchased bool   `json:"purchased"`
}

// String renders an item as "quantity unit name" for user-facing output.
func (i Item) String() string {
	switch {
	case i.Quantity != "" && i.Unit != "":
		return fmt.Sprintf("%s %s %s", i.Quantity, i.Unit, i.Name)
	case i.Quantity != "":
		return fmt.Sprintf("%s %s", i.Quantity, i.Name)
	default:
		return i.Name
	}
}

// List is a per-conversation shopping list. One thread holds at most one
// list per user.
type List struct {
	ID        int64
	ThreadID  string
	UserID    string
	Items     []Item
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemsByCategory groups the list's items by store section for display,
// returning the category order alongside the grouping.
func (l *List) ItemsByCategory() ([]string, map[string][]Item) {
	grouped := make(map[string][]Item)
	var order []string
	for _, item := range l.Items {
		category := item.Category
		if category == "" {
			category = Categorize(item.Name)
		}
		if _, seen := grouped[category]; !seen {
			order = append(order, category)
		}
		grouped[category] = append(grouped[category], item)
	}
	return order, grouped
}
