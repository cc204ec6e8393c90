package menu

import (
	"fmt"
	"strings"
)

// HasItems reports whether the category exists and holds at least one item.
func (m Menu) HasItems(categoryID string) bool {
	c := m.FindCategory(categoryID)
	return c != nil && len(c.Items) > 0
}

// FindCategory returns a pointer into m.Categories, or nil.
func (m Menu) FindCategory(id string) *Category {
	if i := m.CategoryIndex(id); i >= 0 {
		return &m.Categories[i]
	}
	return nil
}

func (m Menu) CategoryIndex(id string) int {
	for i := range m.Categories {
		if m.Categories[i].ID == id {
			return i
		}
	}
	return -1
}

// FindItem searches every category for the item id.
func (m Menu) FindItem(id string) (*Item, bool) {
	for ci := range m.Categories {
		items := m.Categories[ci].Items
		for ii := range items {
			if items[ii].ID == id {
				return &items[ii], true
			}
		}
	}
	return nil, false
}

func (m Menu) ItemIDInUse(id string) bool {
	_, ok := m.FindItem(id)
	return ok
}

// AllItems flattens the items in category order.
func (m Menu) AllItems() []Item {
	var out []Item
	for _, c := range m.Categories {
		out = append(out, c.Items...)
	}
	return out
}

// CategoryByName matches the English name case-insensitively. No trimming
// or fuzzy matching is applied.
func (m Menu) CategoryByName(en string) *Category {
	for i := range m.Categories {
		if strings.EqualFold(m.Categories[i].Name.En, en) {
			return &m.Categories[i]
		}
	}
	return nil
}

// CheckIntegrity lists every structural invariant the menu breaks. An empty
// result means the tree is sound.
func (m Menu) CheckIntegrity() []string {
	var problems []string
	cats := make(map[string]bool, len(m.Categories))
	items := make(map[string]bool)
	for ci, c := range m.Categories {
		if c.ID == "" {
			problems = append(problems, fmt.Sprintf("categories[%d]: missing id", ci))
		} else if cats[c.ID] {
			problems = append(problems, fmt.Sprintf("categories[%d]: duplicate id %q", ci, c.ID))
		}
		cats[c.ID] = true
		for ii, it := range c.Items {
			if it.ID == "" {
				problems = append(problems, fmt.Sprintf("categories[%d].items[%d]: missing id", ci, ii))
			} else if items[it.ID] {
				problems = append(problems, fmt.Sprintf("categories[%d].items[%d]: duplicate id %q", ci, ii, it.ID))
			}
			items[it.ID] = true
			if it.CategoryID != c.ID {
				problems = append(problems, fmt.Sprintf("categories[%d].items[%d]: categoryId %q does not match %q", ci, ii, it.CategoryID, c.ID))
			}
		}
	}
	return problems
}

// Available returns a copy holding only items a diner can order.
func (m Menu) Available() Menu {
	return m.filter(func(it Item) bool { return it.IsAvailable })
}

// Search keeps items whose name or description in lang contains query and
// drops categories left empty. An empty query returns a copy of m.
func (m Menu) Search(lang Language, query string) Menu {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return m.Clone()
	}
	out := m.filter(func(it Item) bool {
		return strings.Contains(strings.ToLower(it.Name.In(lang)), q) ||
			strings.Contains(strings.ToLower(it.Description.In(lang)), q)
	})
	kept := out.Categories[:0]
	for _, c := range out.Categories {
		if len(c.Items) > 0 {
			kept = append(kept, c)
		}
	}
	out.Categories = kept
	return out
}

func (m Menu) filter(keep func(Item) bool) Menu {
	out := m.Clone()
	for ci := range out.Categories {
		items := out.Categories[ci].Items[:0]
		for _, it := range out.Categories[ci].Items {
			if keep(it) {
				items = append(items, it)
			}
		}
		out.Categories[ci].Items = items
	}
	return out
}
