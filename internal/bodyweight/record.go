package bodyweight

import (
	"math"
	"time"

	"github.com/2beens/trainlog/internal/workout/engine"
	"github.com/2beens/trainlog/pkg"
)

// Record is the body weight of a user on one day. Synthetic records are zero weight
// placeholders inserted for days skipped between two reports.
type Record struct {
	ID        int
	UserID    int
	Date      time.Time
	WeightKg  float64
	Synthetic bool
	HeightCm  float64
}

// BMI is weight / height^2 with height in meters, rounded to two decimals.
func (r Record) BMI() float64 {
	if r.WeightKg <= 0 || r.HeightCm <= 0 {
		return 0
	}
	h := r.HeightCm / 100
	return math.Round(r.WeightKg/(h*h)*100) / 100
}

type RecordView struct {
	ID        int     `json:"id"`
	Date      string  `json:"date"`
	Weekday   string  `json:"weekday"`
	WeightKg  float64 `json:"weightKg"`
	BMI       float64 `json:"bmi"`
	Synthetic bool    `json:"synthetic"`
}

func (r Record) View() RecordView {
	return RecordView{
		ID:        r.ID,
		Date:      pkg.FormatDay(r.Date),
		Weekday:   engine.WeekdayLabel(r.Date),
		WeightKg:  r.WeightKg,
		BMI:       r.BMI(),
		Synthetic: r.Synthetic,
	}
}

func views(records []Record) []RecordView {
	v := make([]RecordView, len(records))
	for i, r := range records {
		v[i] = r.View()
	}
	return v
}
