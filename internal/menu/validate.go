package menu

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkStruct runs the struct tags on v and folds failures into ve.
// prefix is prepended to each field name ("item", "style").
func checkStruct(ve *ValidationError, prefix string, v any) {
	err := validate.Struct(v)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		ve.add(prefix, err.Error())
		return
	}
	for _, fe := range verrs {
		ve.add(fieldPath(prefix, fe.Namespace()), reasonFor(fe))
	}
}

// fieldPath turns "Item.dietaryInfo.spiciness" into "item.dietaryInfo.spiciness".
func fieldPath(prefix, ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return prefix + "." + rest
	}
	return prefix
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}

// normalizeItem collapses duplicate tags and fills the default spiciness.
func normalizeItem(it *Item) {
	if it.DietaryInfo.Spiciness == "" {
		it.DietaryInfo.Spiciness = SpicinessNone
	}
	seen := make(map[Tag]bool, len(it.Tags))
	tags := make([]Tag, 0, len(it.Tags))
	for _, t := range it.Tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	it.Tags = tags
}

// checkItemFields validates an item on its own, without looking at the menu.
func checkItemFields(ve *ValidationError, field string, it Item) {
	checkStruct(ve, field, it)
	if strings.TrimSpace(it.Name.En) == "" {
		ve.add(field+".name.en", "is required")
	}
	for _, t := range it.Tags {
		if !validTags[t] {
			ve.add(field+".tags", "unknown tag "+string(t))
		}
	}
}

func checkStyle(ve *ValidationError, s Style) {
	checkStruct(ve, "style", s)
}
