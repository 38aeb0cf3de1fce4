package logs

import (
	"time"

	"github.com/2beens/trainlog/internal/workout/engine"
)

type LogEntry struct {
	ID         int       `json:"id"`
	UserID     int       `json:"userId"`
	ExerciseID int       `json:"exerciseId"`
	Date       time.Time `json:"-"`
	Sets       int       `json:"sets"`
	Reps       int       `json:"reps"`
	Weight     float64   `json:"weight"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (e LogEntry) Engine() engine.LogEntry {
	return engine.LogEntry{
		ID:         e.ID,
		Date:       e.Date,
		ExerciseID: e.ExerciseID,
		Sets:       e.Sets,
		Reps:       e.Reps,
		Weight:     e.Weight,
		Comment:    e.Comment,
	}
}

func ToEngine(entries []LogEntry) []engine.LogEntry {
	converted := make([]engine.LogEntry, len(entries))
	for i, e := range entries {
		converted[i] = e.Engine()
	}
	return converted
}
