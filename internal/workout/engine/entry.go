package engine

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/multierr"
)

type ExerciseStatus string

const (
	StatusActive  ExerciseStatus = "active"
	StatusDeleted ExerciseStatus = "deleted"
)

// ExerciseInfo is the catalog view of an exercise definition the engine needs.
type ExerciseInfo struct {
	ID       int            `json:"id"`
	Name     string         `json:"name"`
	Category Category       `json:"category"`
	Status   ExerciseStatus `json:"status"`
}

func (e ExerciseInfo) IsActive() bool {
	return e.Status != StatusDeleted
}

// Catalog maps exercise ids to their definitions. When resolving history it must
// include soft deleted exercises too.
type Catalog map[int]ExerciseInfo

func NewCatalog(exercises ...ExerciseInfo) Catalog {
	c := make(Catalog, len(exercises))
	for _, e := range exercises {
		c[e.ID] = e
	}
	return c
}

type LogEntry struct {
	ID         int       `json:"id"`
	Date       time.Time `json:"date"`
	ExerciseID int       `json:"exerciseId"`
	Sets       int       `json:"sets"`
	Reps       int       `json:"reps"`
	Weight     float64   `json:"weight"`
	Comment    string    `json:"comment,omitempty"`
}

// Load is the training volume of the entry: sets x reps x weight.
func (e LogEntry) Load() float64 {
	return float64(e.Sets) * float64(e.Reps) * e.Weight
}

// Upper bounds of a single entry.
const (
	MaxSets   = 100
	MaxReps   = 1000
	MaxWeight = 1000
)

// Validate checks the constraints of user submitted entries.
func (e LogEntry) Validate() error {
	switch {
	case e.Date.IsZero():
		return fmt.Errorf("%w: missing date", ErrInvalidEntry)
	case e.ExerciseID <= 0 || e.ExerciseID > math.MaxInt32:
		return fmt.Errorf("%w: invalid exercise id %d", ErrInvalidEntry, e.ExerciseID)
	case e.Sets <= 0 || e.Sets > MaxSets:
		return fmt.Errorf("%w: sets must be within 1-%d, got %d", ErrInvalidEntry, MaxSets, e.Sets)
	case e.Reps <= 0 || e.Reps > MaxReps:
		return fmt.Errorf("%w: reps must be within 1-%d, got %d", ErrInvalidEntry, MaxReps, e.Reps)
	case e.Weight < 0 || e.Weight > MaxWeight || math.IsNaN(e.Weight):
		return fmt.Errorf("%w: weight must be within 0-%d, got %v", ErrInvalidEntry, MaxWeight, e.Weight)
	}
	return nil
}

// LoadFunc computes the load contribution of a single entry.
type LoadFunc func(LogEntry) float64

var (
	VolumeLoad LoadFunc = LogEntry.Load
	// WeightOnlyLoad counts only the lifted weight, ignoring sets and reps.
	WeightOnlyLoad LoadFunc = func(e LogEntry) float64 { return e.Weight }
)

// MissingExerciseWarning reports a log entry that references an exercise unknown to the catalog.
type MissingExerciseWarning struct {
	EntryID    int       `json:"entryId"`
	ExerciseID int       `json:"exerciseId"`
	Date       time.Time `json:"date"`
}

func (w MissingExerciseWarning) Error() string {
	return fmt.Sprintf(
		"log entry %d on %s references unknown exercise %d",
		w.EntryID, w.Date.Format(DayLayout), w.ExerciseID,
	)
}

func combineWarnings(warnings []MissingExerciseWarning) error {
	var err error
	for _, w := range warnings {
		err = multierr.Append(err, w)
	}
	return err
}
