package engine

import (
	"fmt"
	"strings"
)

// Category is the body region an exercise belongs to.
type Category string

const (
	CategoryChest    Category = "chest"
	CategoryShoulder Category = "shoulder"
	CategoryArm      Category = "arm"
	CategoryBack     Category = "back"
	CategoryAbs      Category = "abs"
	CategoryLeg      Category = "leg"
	CategoryOther    Category = "other"
)

// Categories lists every category in display precedence order.
var Categories = []Category{
	CategoryChest,
	CategoryShoulder,
	CategoryArm,
	CategoryBack,
	CategoryAbs,
	CategoryLeg,
	CategoryOther,
}

type categoryInfo struct {
	precedence int
	color      string
	// baseline load target for a 14 days window
	target float64
}

var categories = map[Category]categoryInfo{
	CategoryChest:    {precedence: 0, color: "#ff6b6b", target: 9000},
	CategoryShoulder: {precedence: 1, color: "#feca57", target: 6000},
	CategoryArm:      {precedence: 2, color: "#1dd1a1", target: 4000},
	CategoryBack:     {precedence: 3, color: "#54a0ff", target: 9000},
	CategoryAbs:      {precedence: 4, color: "#a29bfe", target: 2000},
	CategoryLeg:      {precedence: 5, color: "#ff9f43", target: 15000},
	CategoryOther:    {precedence: 6, color: "#dfe6e9", target: 5000},
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: [%s]", ErrInvalidCategory, s)
	}
	return c, nil
}

func (c Category) IsValid() bool {
	_, ok := categories[c]
	return ok
}

func (c Category) String() string {
	return string(c)
}

// Precedence gives the display position of the category; unknown categories sort last.
func (c Category) Precedence() int {
	if info, ok := categories[c]; ok {
		return info.precedence
	}
	return len(Categories)
}

func (c Category) Color() string {
	if info, ok := categories[c]; ok {
		return info.color
	}
	return "#cccccc"
}

// BaselineTarget returns the 14 days load target, or 0 for unknown categories.
func (c Category) BaselineTarget() float64 {
	return categories[c].target
}
