package engine

import (
	"fmt"
	"math"
	"strings"
)

// TargetWindowDays is the window the baseline category targets are defined for.
const TargetWindowDays = 14

const DefaultMultiplier = 0.5

type DifficultyTier string

const (
	TierBeginner     DifficultyTier = "beginner"
	TierIntermediate DifficultyTier = "intermediate"
	TierAdvanced     DifficultyTier = "advanced"
)

var tierMultipliers = map[DifficultyTier]float64{
	TierBeginner:     0.5,
	TierIntermediate: 0.75,
	TierAdvanced:     1.0,
}

func ParseDifficultyTier(s string) (DifficultyTier, error) {
	t := DifficultyTier(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := tierMultipliers[t]; !ok {
		return "", fmt.Errorf("%w: unknown tier [%s]", ErrInvalidDifficulty, s)
	}
	return t, nil
}

// DifficultyProfile scales the category targets. A custom multiplier always wins over the tier.
type DifficultyProfile struct {
	Tier             DifficultyTier `json:"tier,omitempty"`
	CustomMultiplier *float64       `json:"customMultiplier,omitempty"`
}

func (p DifficultyProfile) Multiplier() float64 {
	if p.CustomMultiplier != nil && *p.CustomMultiplier > 0 {
		return *p.CustomMultiplier
	}
	if m, ok := tierMultipliers[p.Tier]; ok {
		return m
	}
	return DefaultMultiplier
}

func (p DifficultyProfile) Validate() error {
	if p.Tier != "" {
		if _, ok := tierMultipliers[p.Tier]; !ok {
			return fmt.Errorf("%w: unknown tier [%s]", ErrInvalidDifficulty, p.Tier)
		}
	}
	if p.CustomMultiplier != nil {
		m := *p.CustomMultiplier
		if m <= 0 || math.IsNaN(m) || math.IsInf(m, 0) {
			return fmt.Errorf("%w: custom multiplier must be positive, got %v", ErrInvalidDifficulty, m)
		}
	}
	return nil
}

// AdjustedTarget scales the baseline target of the category to the multiplier and window.
func AdjustedTarget(c Category, multiplier float64, windowDays int) float64 {
	return c.BaselineTarget() * multiplier * (float64(windowDays) / TargetWindowDays)
}

// ProgressScore rates the load of each category against its adjusted target, 0 to 100.
// Overachievement is capped at 100. Categories without load, or without a positive
// target, score 0. The result always holds every category.
func ProgressScore(totals map[Category]float64, multiplier float64, windowDays int) map[Category]int {
	scores := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		scores[c] = 0

		target := AdjustedTarget(c, multiplier, windowDays)
		total := totals[c]
		if target <= 0 || math.IsNaN(target) || total <= 0 || math.IsNaN(total) {
			continue
		}

		ratio := math.Min(100, total/target*100)
		scores[c] = int(math.Round(ratio))
	}
	return scores
}
