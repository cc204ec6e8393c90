package menu

import (
	"encoding/json"
	"fmt"
	"math"
)

// Wire shapes use pointers so a missing field can be told apart from a
// zero value.
type wireMenu struct {
	ID             *string         `json:"id"`
	Name           string          `json:"name"`
	RestaurantInfo RestaurantInfo  `json:"restaurantInfo"`
	Style          *Style          `json:"style"`
	Categories     *[]wireCategory `json:"categories"`
}

type wireLocalized struct {
	En *string `json:"en"`
	Th string  `json:"th"`
}

type wireCategory struct {
	ID    *string        `json:"id"`
	Name  *wireLocalized `json:"name"`
	Items *[]wireItem    `json:"items"`
}

type wireItem struct {
	ID               *string           `json:"id"`
	CategoryID       *string           `json:"categoryId"`
	Name             *wireLocalized    `json:"name"`
	Description      LocalizedString   `json:"description"`
	Price            *float64          `json:"price"`
	Image            string            `json:"image"`
	ImageEnhancement *ImageEnhancement `json:"imageEnhancement"`
	Tags             []Tag             `json:"tags"`
	DietaryInfo      *DietaryInfo      `json:"dietaryInfo"`
	IsAvailable      *bool             `json:"isAvailable"`
}

// Decode parses a stored document into a Menu and checks every structural
// invariant. Any problem yields a *DocumentIntegrityError; a partially
// valid Menu is never returned. Unknown fields are ignored.
func Decode(data []byte) (Menu, error) {
	var w wireMenu
	if err := json.Unmarshal(data, &w); err != nil {
		return Menu{}, &DocumentIntegrityError{Err: fmt.Errorf("parse document: %w", err)}
	}

	d := decoder{}
	m := d.menu(w)
	if len(d.problems) == 0 {
		d.problems = m.CheckIntegrity()
	}
	if len(d.problems) > 0 {
		return Menu{}, &DocumentIntegrityError{Problems: d.problems}
	}
	return m, nil
}

type decoder struct {
	problems []string
}

func (d *decoder) fail(format string, args ...any) {
	d.problems = append(d.problems, fmt.Sprintf(format, args...))
}

func (d *decoder) menu(w wireMenu) Menu {
	m := Menu{Name: w.Name, RestaurantInfo: w.RestaurantInfo}
	if w.ID == nil || *w.ID == "" {
		d.fail("id: missing")
	} else {
		m.ID = *w.ID
	}

	m.Style = DefaultStyle()
	if w.Style != nil {
		m.Style = *w.Style
		var ve ValidationError
		checkStyle(&ve, m.Style)
		for _, f := range ve.Fields {
			d.fail("%s: %s", f.Field, f.Reason)
		}
	}

	if w.Categories == nil {
		d.fail("categories: missing")
		return m
	}
	m.Categories = make([]Category, 0, len(*w.Categories))
	for i, wc := range *w.Categories {
		m.Categories = append(m.Categories, d.category(fmt.Sprintf("categories[%d]", i), wc))
	}
	return m
}

func (d *decoder) category(path string, w wireCategory) Category {
	var c Category
	if w.ID == nil || *w.ID == "" {
		d.fail("%s.id: missing", path)
	} else {
		c.ID = *w.ID
	}
	c.Name = d.localized(path+".name", w.Name)
	if w.Items == nil {
		d.fail("%s.items: missing", path)
		return c
	}
	c.Items = make([]Item, 0, len(*w.Items))
	for i, wi := range *w.Items {
		c.Items = append(c.Items, d.item(fmt.Sprintf("%s.items[%d]", path, i), wi))
	}
	return c
}

func (d *decoder) item(path string, w wireItem) Item {
	it := Item{
		Description:      w.Description,
		Image:            w.Image,
		ImageEnhancement: w.ImageEnhancement,
		Tags:             w.Tags,
		DietaryInfo:      DefaultDietaryInfo(),
		IsAvailable:      true,
	}
	if w.ID == nil || *w.ID == "" {
		d.fail("%s.id: missing", path)
	} else {
		it.ID = *w.ID
	}
	if w.CategoryID == nil || *w.CategoryID == "" {
		d.fail("%s.categoryId: missing", path)
	} else {
		it.CategoryID = *w.CategoryID
	}
	it.Name = d.localized(path+".name", w.Name)

	switch {
	case w.Price == nil:
		d.fail("%s.price: missing", path)
	case *w.Price < 0 || math.IsNaN(*w.Price) || math.IsInf(*w.Price, 0):
		d.fail("%s.price: must be a non-negative number", path)
	default:
		it.Price = *w.Price
	}

	if w.DietaryInfo != nil {
		it.DietaryInfo = *w.DietaryInfo
	}
	if w.IsAvailable != nil {
		it.IsAvailable = *w.IsAvailable
	}
	normalizeItem(&it)

	for _, t := range it.Tags {
		if !validTags[t] {
			d.fail("%s.tags: unknown tag %q", path, t)
		}
	}
	switch it.DietaryInfo.Spiciness {
	case SpicinessNone, SpicinessMild, SpicinessMedium, SpicinessHot:
	default:
		d.fail("%s.dietaryInfo.spiciness: unknown value %q", path, it.DietaryInfo.Spiciness)
	}
	return it
}

func (d *decoder) localized(path string, w *wireLocalized) LocalizedString {
	if w == nil || w.En == nil || *w.En == "" {
		d.fail("%s.en: missing", path)
		if w == nil {
			return LocalizedString{}
		}
		return LocalizedString{Th: w.Th}
	}
	return LocalizedString{En: *w.En, Th: w.Th}
}
