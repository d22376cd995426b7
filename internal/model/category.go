// Package model defines the core domain models used throughout the application.
package model

import "strings"

// Category is one of the fixed expense categories. Values are the localized labels.
type Category string

// Category constants.
const (
	CategoryFood          Category = "餐饮"
	CategoryTransport     Category = "交通"
	CategoryShopping      Category = "购物"
	CategoryEntertainment Category = "娱乐"
	CategoryMedical       Category = "医疗"
	CategoryOther         Category = "其他"
)

// Categories lists every category in registration order. Order matters for tie-breaks.
var Categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryShopping,
	CategoryEntertainment,
	CategoryMedical,
	CategoryOther,
}

var categoryAliases = map[string]Category{
	"food":           CategoryFood,
	"dining":         CategoryFood,
	"transport":      CategoryTransport,
	"transportation": CategoryTransport,
	"shopping":       CategoryShopping,
	"entertainment":  CategoryEntertainment,
	"medical":        CategoryMedical,
	"health":         CategoryMedical,
	"other":          CategoryOther,
}

var englishNames = map[Category]string{
	CategoryFood:          "Food",
	CategoryTransport:     "Transport",
	CategoryShopping:      "Shopping",
	CategoryEntertainment: "Entertainment",
	CategoryMedical:       "Medical",
	CategoryOther:         "Other",
}

// defaultSubcategories is used when nothing more specific was derived.
var defaultSubcategories = map[Category]string{
	CategoryFood:          "正餐",
	CategoryTransport:     "交通费",
	CategoryShopping:      "购物",
	CategoryEntertainment: "娱乐",
	CategoryMedical:       "医疗",
	CategoryOther:         "其他",
}

// ParseCategory resolves a localized label or an English name to a Category.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	c, ok := categoryAliases[strings.ToLower(s)]
	return c, ok
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	_, ok := englishNames[c]
	return ok
}

// DefaultSubcategory returns the generic subcategory for c.
func (c Category) DefaultSubcategory() string {
	if sub, ok := defaultSubcategories[c]; ok {
		return sub
	}
	return string(CategoryOther)
}
