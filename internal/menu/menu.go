// Package menu holds the restaurant menu document model and the pure
// mutation functions that keep it a valid tree.
package menu

// Language selects one side of a LocalizedString.
type Language string

const (
	English Language = "en"
	Thai    Language = "th"
)

// LocalizedString is a bilingual label.
type LocalizedString struct {
	En string `json:"en"`
	Th string `json:"th"`
}

// In returns the text for lang, falling back to English.
func (s LocalizedString) In(lang Language) string {
	if lang == Thai && s.Th != "" {
		return s.Th
	}
	return s.En
}

type Spiciness string

const (
	SpicinessNone   Spiciness = "none"
	SpicinessMild   Spiciness = "mild"
	SpicinessMedium Spiciness = "medium"
	SpicinessHot    Spiciness = "hot"
)

// DietaryInfo flags are independent of each other. Vegan does not imply
// vegetarian here; the data keeps exactly what the owner entered.
type DietaryInfo struct {
	IsVegan      bool      `json:"isVegan"`
	IsVegetarian bool      `json:"isVegetarian"`
	IsGlutenFree bool      `json:"isGlutenFree"`
	Spiciness    Spiciness `json:"spiciness" validate:"omitempty,oneof=none mild medium hot"`
}

// DefaultDietaryInfo is the all-false profile given to imported items.
func DefaultDietaryInfo() DietaryInfo {
	return DietaryInfo{Spiciness: SpicinessNone}
}

type Tag string

const (
	TagRecommended Tag = "Recommended"
	TagChefsChoice Tag = "Chef's Choice"
	TagBestSeller  Tag = "Best Seller"
	TagNew         Tag = "New"
)

var validTags = map[Tag]bool{
	TagRecommended: true,
	TagChefsChoice: true,
	TagBestSeller:  true,
	TagNew:         true,
}

// ImageEnhancement is a rendering hint suggested by the AI collaborator.
type ImageEnhancement struct {
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Saturation float64 `json:"saturation"`
}

type Item struct {
	ID               string            `json:"id" validate:"required"`
	CategoryID       string            `json:"categoryId" validate:"required"`
	Name             LocalizedString   `json:"name"`
	Description      LocalizedString   `json:"description"`
	Price            float64           `json:"price" validate:"gte=0"`
	Image            string            `json:"image,omitempty"`
	ImageEnhancement *ImageEnhancement `json:"imageEnhancement,omitempty"`
	Tags             []Tag             `json:"tags"`
	DietaryInfo      DietaryInfo       `json:"dietaryInfo"`
	IsAvailable      bool              `json:"isAvailable"`
}

type Category struct {
	ID    string          `json:"id" validate:"required"`
	Name  LocalizedString `json:"name"`
	Items []Item          `json:"items"`
}

type FontFamily string

const (
	FontSans  FontFamily = "sans"
	FontSerif FontFamily = "serif"
	FontMono  FontFamily = "mono"
)

type Layout string

const (
	LayoutList Layout = "list"
	LayoutGrid Layout = "grid"
)

type Style struct {
	PrimaryColor    string     `json:"primaryColor"`
	BackgroundColor string     `json:"backgroundColor"`
	SurfaceColor    string     `json:"surfaceColor"`
	TextColor       string     `json:"textColor"`
	FontFamily      FontFamily `json:"fontFamily" validate:"oneof=sans serif mono"`
	Layout          Layout     `json:"layout" validate:"oneof=list grid"`
}

type RestaurantInfo struct {
	HeaderImage    string `json:"headerImage,omitempty"`
	OpeningHours   string `json:"openingHours"`
	Address        string `json:"address"`
	GoogleMapsLink string `json:"googleMapsLink,omitempty"`
	Phone          string `json:"phone,omitempty"`
}

// Menu is the root document. Its ID doubles as the storage key and the
// public URL slug.
type Menu struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	RestaurantInfo RestaurantInfo `json:"restaurantInfo"`
	Style          Style          `json:"style"`
	Categories     []Category     `json:"categories"`
}

// Clone returns a deep copy so callers can build a new Menu without
// touching the receiver's slices.
func (m Menu) Clone() Menu {
	out := m
	out.Categories = make([]Category, len(m.Categories))
	for i, c := range m.Categories {
		out.Categories[i] = c.clone()
	}
	return out
}

func (c Category) clone() Category {
	out := c
	out.Items = make([]Item, len(c.Items))
	for i, it := range c.Items {
		out.Items[i] = it.clone()
	}
	return out
}

func (it Item) clone() Item {
	out := it
	if it.Tags != nil {
		out.Tags = make([]Tag, len(it.Tags))
		copy(out.Tags, it.Tags)
	}
	if it.ImageEnhancement != nil {
		e := *it.ImageEnhancement
		out.ImageEnhancement = &e
	}
	return out
}
