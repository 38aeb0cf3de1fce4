package exercises

import (
	"sort"
	"strings"
	"time"

	"github.com/2beens/trainlog/internal/workout/engine"
)

type Exercise struct {
	ID           int                   `json:"id"`
	UserID       int                   `json:"userId"`
	Name         string                `json:"name"`
	Category     engine.Category       `json:"category"`
	Detail       string                `json:"detail,omitempty"`
	DisplayOrder int                   `json:"order"`
	Status       engine.ExerciseStatus `json:"status"`
	CreatedAt    time.Time             `json:"createdAt"`
}

func (e Exercise) Info() engine.ExerciseInfo {
	return engine.ExerciseInfo{
		ID:       e.ID,
		Name:     e.Name,
		Category: e.Category,
		Status:   e.Status,
	}
}

// OrderItem sets the display position of one exercise.
type OrderItem struct {
	ID    int `json:"id"`
	Order int `json:"order"`
}

type CategoryGroup struct {
	Category  engine.Category `json:"category"`
	Color     string          `json:"color"`
	Exercises []Exercise      `json:"exercises"`
}

// SortForDisplay orders exercises by category precedence, then display order.
func SortForDisplay(exercises []Exercise) {
	sort.SliceStable(exercises, func(i, j int) bool {
		a, b := exercises[i], exercises[j]
		if pa, pb := a.Category.Precedence(), b.Category.Precedence(); pa != pb {
			return pa < pb
		}
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder < b.DisplayOrder
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}

// GroupByCategory groups exercises in category precedence order, skipping empty categories.
func GroupByCategory(exercises []Exercise) []CategoryGroup {
	sorted := append([]Exercise(nil), exercises...)
	SortForDisplay(sorted)

	groups := make([]CategoryGroup, 0)
	for _, e := range sorted {
		if len(groups) == 0 || groups[len(groups)-1].Category != e.Category {
			groups = append(groups, CategoryGroup{
				Category:  e.Category,
				Color:     e.Category.Color(),
				Exercises: []Exercise{},
			})
		}
		last := &groups[len(groups)-1]
		last.Exercises = append(last.Exercises, e)
	}
	return groups
}
