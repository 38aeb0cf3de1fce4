package users

import (
	"time"

	"github.com/2beens/trainlog/internal/workout/engine"
)

type User struct {
	ID           int                      `json:"id"`
	Username     string                   `json:"username"`
	Email        string                   `json:"email"`
	PasswordHash string                   `json:"-"`
	HeightCm     float64                  `json:"heightCm"`
	Difficulty   engine.DifficultyProfile `json:"difficulty"`
	CreatedAt    time.Time                `json:"createdAt"`
}
