package menu

import (
	"strings"

	"github.com/google/uuid"
)

// IDFunc mints a fresh id with the given prefix ("cat", "item").
type IDFunc func(prefix string) string

// NewID returns prefix-<uuid>.
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// ExtractedCategory is one category as read off a menu photo.
type ExtractedCategory struct {
	CategoryNameEn string          `json:"category_name_en"`
	CategoryNameTh string          `json:"category_name_th"`
	Items          []ExtractedItem `json:"items"`
}

type ExtractedItem struct {
	NameEn        string  `json:"name_en"`
	NameTh        string  `json:"name_th"`
	DescriptionEn string  `json:"description_en"`
	DescriptionTh string  `json:"description_th"`
	Price         float64 `json:"price"`
}

const importedCategoryName = "Imported"

// MergeExtractedCategories folds extracted categories into the menu. A
// category whose English name equals an existing one, ignoring case, reuses
// that category; otherwise a new category is appended. Categories created
// earlier in the same merge count as existing. Every extracted item becomes
// a new available item with a fresh id, no tags and the default dietary
// profile.
func MergeExtractedCategories(m Menu, extracted []ExtractedCategory, newID IDFunc) Menu {
	if newID == nil {
		newID = NewID
	}
	out := m.Clone()
	for _, ec := range extracted {
		nameEn := firstNonEmpty(ec.CategoryNameEn, ec.CategoryNameTh, importedCategoryName)
		c := out.CategoryByName(nameEn)
		if c == nil {
			out.Categories = append(out.Categories, Category{
				ID:    newID("cat"),
				Name:  LocalizedString{En: nameEn, Th: firstNonEmpty(ec.CategoryNameTh, nameEn)},
				Items: []Item{},
			})
			c = &out.Categories[len(out.Categories)-1]
		}

		for _, ei := range ec.Items {
			name := firstNonEmpty(ei.NameEn, ei.NameTh)
			if name == "" {
				continue
			}
			price := ei.Price
			if price < 0 {
				price = 0
			}
			c.Items = append(c.Items, Item{
				ID:          newID("item"),
				CategoryID:  c.ID,
				Name:        LocalizedString{En: name, Th: ei.NameTh},
				Description: LocalizedString{En: ei.DescriptionEn, Th: ei.DescriptionTh},
				Price:       price,
				Tags:        []Tag{},
				DietaryInfo: DefaultDietaryInfo(),
				IsAvailable: true,
			})
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
