package menu

import (
	"fmt"
	"strings"
)

// Every function in this file takes the menu by value and returns a fresh
// deep copy. The input is never modified, so a rejected mutation leaves the
// caller's menu exactly as it was.

// AddItem inserts or replaces an item. Whether it is new is decided by
// whether its id already appears anywhere in the menu. An existing item is
// removed from wherever it lives and appended to the category named by
// item.CategoryID, which moves it between categories when that changed.
func AddItem(m Menu, item Item) (Menu, error) {
	normalizeItem(&item)

	var ve ValidationError
	checkItemFields(&ve, "item", item)
	if item.CategoryID != "" && m.FindCategory(item.CategoryID) == nil {
		ve.add("item.categoryId", fmt.Sprintf("unknown category %q", item.CategoryID))
	}
	if err := ve.errOrNil(); err != nil {
		return m, err
	}

	out := removeItem(m.Clone(), item.ID)
	c := out.FindCategory(item.CategoryID)
	c.Items = append(c.Items, item)
	return out, nil
}

// UpdateItem is AddItem; saving an item is the same operation whether or
// not it exists yet.
func UpdateItem(m Menu, item Item) (Menu, error) {
	return AddItem(m, item)
}

// DeleteItem removes itemID from categoryID. Unknown ids are not an error.
func DeleteItem(m Menu, categoryID, itemID string) Menu {
	out := m.Clone()
	c := out.FindCategory(categoryID)
	if c == nil {
		return out
	}
	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	c.Items = kept
	return out
}

// SetItemAvailability flips whether diners can order an item.
func SetItemAvailability(m Menu, itemID string, available bool) (Menu, error) {
	out := m.Clone()
	it, ok := out.FindItem(itemID)
	if !ok {
		return m, invalid("itemId", fmt.Sprintf("unknown item %q", itemID))
	}
	it.IsAvailable = available
	return out, nil
}

func removeItem(m Menu, itemID string) Menu {
	for ci := range m.Categories {
		items := m.Categories[ci].Items
		for ii := range items {
			if items[ii].ID == itemID {
				m.Categories[ci].Items = append(items[:ii:ii], items[ii+1:]...)
				return m
			}
		}
	}
	return m
}

// AddCategory upserts a category by id. An existing category gets the new
// name and keeps its items. A new one is appended with the items it was
// built with, which must belong to it and use unused ids. An empty Thai
// name defaults to the English one.
func AddCategory(m Menu, c Category) (Menu, error) {
	c.Name.En = strings.TrimSpace(c.Name.En)
	if c.Name.Th == "" {
		c.Name.Th = c.Name.En
	}

	var ve ValidationError
	if c.ID == "" {
		ve.add("category.id", "is required")
	}
	if c.Name.En == "" {
		ve.add("category.name.en", "is required")
	}

	existing := m.FindCategory(c.ID)
	if existing == nil && c.ID != "" {
		seen := make(map[string]bool, len(c.Items))
		for i := range c.Items {
			it := &c.Items[i]
			field := fmt.Sprintf("category.items[%d]", i)
			normalizeItem(it)
			checkItemFields(&ve, field, *it)
			if it.CategoryID != c.ID {
				ve.add(field+".categoryId", fmt.Sprintf("must be %q", c.ID))
			}
			if m.ItemIDInUse(it.ID) || seen[it.ID] {
				ve.add(field+".id", fmt.Sprintf("id %q already in use", it.ID))
			}
			seen[it.ID] = true
		}
	}
	if err := ve.errOrNil(); err != nil {
		return m, err
	}

	out := m.Clone()
	if existing != nil {
		out.FindCategory(c.ID).Name = c.Name
		return out, nil
	}
	nc := c.clone()
	out.Categories = append(out.Categories, nc)
	return out, nil
}

// UpdateCategory is AddCategory.
func UpdateCategory(m Menu, c Category) (Menu, error) {
	return AddCategory(m, c)
}

// DeleteCategory removes the category and every item that belonged to it.
func DeleteCategory(m Menu, categoryID string) Menu {
	out := m.Clone()
	kept := out.Categories[:0]
	for _, c := range out.Categories {
		if c.ID != categoryID {
			kept = append(kept, c)
		}
	}
	out.Categories = kept
	for ci := range out.Categories {
		items := out.Categories[ci].Items[:0]
		for _, it := range out.Categories[ci].Items {
			if it.CategoryID != categoryID {
				items = append(items, it)
			}
		}
		out.Categories[ci].Items = items
	}
	return out
}

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// MoveCategory swaps the category at index with its neighbour. Moving the
// first category up or the last one down changes nothing.
func MoveCategory(m Menu, index int, dir Direction) (Menu, error) {
	if index < 0 || index >= len(m.Categories) {
		return m, invalid("index", fmt.Sprintf("out of range [0,%d)", len(m.Categories)))
	}
	target := index
	switch dir {
	case Up:
		target = index - 1
	case Down:
		target = index + 1
	default:
		return m, invalid("direction", "must be one of: up down")
	}

	out := m.Clone()
	if target < 0 || target >= len(out.Categories) {
		return out, nil
	}
	out.Categories[index], out.Categories[target] = out.Categories[target], out.Categories[index]
	return out, nil
}

// ApplyTemplate copies the template's style into the menu.
func ApplyTemplate(m Menu, templateID string) (Menu, error) {
	t, ok := FindTemplate(templateID)
	if !ok {
		return m, invalid("templateId", fmt.Sprintf("unknown template %q", templateID))
	}
	out := m.Clone()
	out.Style = t.Style
	return out, nil
}

// UpdateStyle replaces the style with a custom one.
func UpdateStyle(m Menu, s Style) (Menu, error) {
	var ve ValidationError
	checkStyle(&ve, s)
	if err := ve.errOrNil(); err != nil {
		return m, err
	}
	out := m.Clone()
	out.Style = s
	return out, nil
}

func UpdateRestaurantInfo(m Menu, info RestaurantInfo) Menu {
	out := m.Clone()
	out.RestaurantInfo = info
	return out
}

// Rename sets the restaurant's display name.
func Rename(m Menu, name string) (Menu, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return m, invalid("name", "is required")
	}
	out := m.Clone()
	out.Name = name
	return out, nil
}
