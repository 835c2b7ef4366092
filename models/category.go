package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownCategory is returned when a string does not match any category display name
var ErrUnknownCategory = errors.New("unknown category")

// Category is the closed set of catalog categories
type Category int

const (
	CategoryElectronics Category = iota + 1
	CategoryClothing
	CategoryBooks
	CategoryHomeGarden
	CategorySportsOutdoors
	CategoryToysGames
	CategoryHealthBeauty
	CategoryFoodBeverages
	CategoryAutomotive
	CategoryOther
)

var categoryNames = map[Category]string{
	CategoryElectronics:    "Electronics",
	CategoryClothing:       "Clothing",
	CategoryBooks:          "Books",
	CategoryHomeGarden:     "Home & Garden",
	CategorySportsOutdoors: "Sports & Outdoors",
	CategoryToysGames:      "Toys & Games",
	CategoryHealthBeauty:   "Health & Beauty",
	CategoryFoodBeverages:  "Food & Beverages",
	CategoryAutomotive:     "Automotive",
	CategoryOther:          "Other",
}

var categoriesByName = func() map[string]Category {
	m := make(map[string]Category, len(categoryNames))
	for c, name := range categoryNames {
		if _, dup := m[name]; dup {
			panic(fmt.Sprintf("models: duplicate category display name %q", name))
		}
		m[name] = c
	}
	return m
}()

// Categories returns every category in declaration order
func Categories() []Category {
	out := make([]Category, 0, len(categoryNames))
	for c := CategoryElectronics; c <= CategoryOther; c++ {
		out = append(out, c)
	}
	return out
}

// DisplayName returns the canonical external representation of the category
func (c Category) DisplayName() string {
	return categoryNames[c]
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Valid reports whether c is one of the declared categories
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// ParseCategory looks up the category whose display name equals s exactly
func ParseCategory(s string) (Category, error) {
	c, ok := categoriesByName[s]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// EncodeCategory converts a category to its persisted form. A nil category encodes to nil.
func EncodeCategory(c *Category) *string {
	if c == nil {
		return nil
	}
	name := c.DisplayName()
	return &name
}

// DecodeCategory converts a persisted value back to a category.
// A nil value decodes to nil; a value that matches no display name is an error.
func DecodeCategory(s *string) (*Category, error) {
	if s == nil {
		return nil, nil
	}
	c, err := ParseCategory(*s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Value implements driver.Valuer
func (c Category) Value() (driver.Value, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return c.DisplayName(), nil
}

// Scan implements sql.Scanner
func (c *Category) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		*c = 0
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("scan category: unsupported type %T", src)
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Category) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return json.Marshal(c.DisplayName())
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("category must be a string: %w", err)
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
