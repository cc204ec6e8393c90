package menu

import (
	_ "embed"
	"fmt"
)

// Template is a named style preset. Applying one copies its Style into the
// menu; no link back to the template is kept.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Style       Style  `json:"style"`
}

const DefaultTemplateID = "template-default"

var templates = []Template{
	{
		ID:          "template-default",
		Name:        "Vibrant Bistro",
		Description: "A modern, high-energy look perfect for casual dining and street food.",
		Style:       Style{PrimaryColor: "#EA580C", BackgroundColor: "#FFF7ED", SurfaceColor: "#FFFFFF", TextColor: "#1F2937", FontFamily: FontSans, Layout: LayoutList},
	},
	{
		ID:          "template-luxury",
		Name:        "Midnight Luxury",
		Description: "Elegant dark theme with gold accents, ideal for fine dining and evening venues.",
		Style:       Style{PrimaryColor: "#D4AF37", BackgroundColor: "#0F0F0F", SurfaceColor: "#1A1A1A", TextColor: "#FAFAFA", FontFamily: FontSerif, Layout: LayoutList},
	},
	{
		ID:          "template-fresh",
		Name:        "Clean & Fresh",
		Description: "Minimalist green and white palette with a grid layout, great for cafes and healthy eats.",
		Style:       Style{PrimaryColor: "#059669", BackgroundColor: "#FFFFFF", SurfaceColor: "#F0FDF4", TextColor: "#0F172A", FontFamily: FontSans, Layout: LayoutGrid},
	},
	{
		ID:          "template-neon",
		Name:        "Neon Night",
		Description: "Cyberpunk-inspired aesthetics with high contrast neon pinks, perfect for bars and night markets.",
		Style:       Style{PrimaryColor: "#EC4899", BackgroundColor: "#111827", SurfaceColor: "#1F2937", TextColor: "#F9FAFB", FontFamily: FontSans, Layout: LayoutGrid},
	},
	{
		ID:          "template-paper",
		Name:        "Minimalist Paper",
		Description: "Classic print-menu feel with serif typography and plenty of whitespace.",
		Style:       Style{PrimaryColor: "#44403C", BackgroundColor: "#FAFAF9", SurfaceColor: "#FFFFFF", TextColor: "#292524", FontFamily: FontSerif, Layout: LayoutList},
	},
}

// Templates returns the fixed catalog in display order.
func Templates() []Template {
	return append([]Template(nil), templates...)
}

// FindTemplate looks up a template by id.
func FindTemplate(id string) (Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// DefaultStyle is the style of the default template.
func DefaultStyle() Style {
	return templates[0].Style
}

// CreateBootstrapMenu builds the empty starter menu for a new owner. The
// menu id is the owner id.
func CreateBootstrapMenu(ownerID string) Menu {
	return Menu{
		ID:    ownerID,
		Name:  "My Restaurant",
		Style: DefaultStyle(),
		Categories: []Category{
			{ID: "cat-starters", Name: LocalizedString{En: "Starters", Th: "ของทานเล่น"}, Items: []Item{}},
			{ID: "cat-mains", Name: LocalizedString{En: "Main Course", Th: "อาหารจานหลัก"}, Items: []Item{}},
			{ID: "cat-desserts", Name: LocalizedString{En: "Desserts", Th: "ของหวาน"}, Items: []Item{}},
			{ID: "cat-drinks", Name: LocalizedString{En: "Drinks", Th: "เครื่องดื่ม"}, Items: []Item{}},
		},
	}
}

//go:embed demo.json
var demoJSON []byte

// DemoMenuID is the public id of the showcase menu.
const DemoMenuID = "demo-neon-tiger"

// DemoMenu returns the read-only showcase menu.
func DemoMenu() Menu {
	m, err := Decode(demoJSON)
	if err != nil {
		panic(fmt.Sprintf("menu: embedded demo menu: %v", err))
	}
	return m
}
