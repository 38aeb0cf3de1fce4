// Seed fills a development database with a demo user, an exercise catalog and a few weeks
// of randomized workouts and body weight reports.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/2beens/trainlog/internal/bodyweight"
	"github.com/2beens/trainlog/internal/config"
	"github.com/2beens/trainlog/internal/db"
	"github.com/2beens/trainlog/internal/logging"
	"github.com/2beens/trainlog/internal/telemetry/metrics"
	"github.com/2beens/trainlog/internal/users"
	"github.com/2beens/trainlog/internal/workout/engine"
	"github.com/2beens/trainlog/internal/workout/exercises"
	"github.com/2beens/trainlog/internal/workout/logs"
	"github.com/2beens/trainlog/pkg"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

var demoCatalog = []struct {
	name     string
	category engine.Category
	weight   float64
}{
	{"Bench Press", engine.CategoryChest, 70},
	{"Incline Dumbbell Press", engine.CategoryChest, 26},
	{"Overhead Press", engine.CategoryShoulder, 40},
	{"Lateral Raise", engine.CategoryShoulder, 10},
	{"Barbell Curl", engine.CategoryArm, 30},
	{"Triceps Pushdown", engine.CategoryArm, 25},
	{"Deadlift", engine.CategoryBack, 120},
	{"Pull Up", engine.CategoryBack, 10},
	{"Hanging Leg Raise", engine.CategoryAbs, 5},
	{"Squat", engine.CategoryLeg, 100},
	{"Leg Press", engine.CategoryLeg, 160},
	{"Farmer Walk", engine.CategoryOther, 40},
}

func main() {
	env := flag.String("env", "development", "environment [dev | development | prod | production]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	email := flag.String("email", "demo@trainlog.app", "demo user email")
	password := flag.String("password", "demo-pass", "demo user password")
	days := flag.Int("days", 42, "number of days of history to generate, ending today")
	seed := flag.Int64("seed", 0, "random seed, 0 picks one from the clock")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Printf("no .env file loaded: %s\n", err)
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogToStdout: true,
		LogLevel:    cfg.LogLevel,
	})

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	log.Infof("seeding %d days for [%s], seed %d", *days, *email, *seed)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, seedParams{
		email:    *email,
		password: *password,
		days:     *days,
		faker:    gofakeit.New(*seed),
	}); err != nil {
		log.Errorf("seed failed: %s", err)
		os.Exit(1)
	}
	log.Infoln("seed done")
}

type seedParams struct {
	email    string
	password string
	days     int
	faker    *gofakeit.Faker
}

func run(ctx context.Context, cfg *config.Config, params seedParams) error {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     os.Getenv("TRAINLOG_POSTGRES_USER"),
		DBPassword: os.Getenv("TRAINLOG_POSTGRES_PASS"),
	})
	if err != nil {
		return fmt.Errorf("new db pool: %w", err)
	}
	defer dbPool.Close()

	if err := db.ApplySchema(ctx, dbPool); err != nil {
		return err
	}

	passwordHash, err := pkg.HashPassword(params.password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	usersRepo := users.NewRepo(dbPool)
	user, err := usersRepo.Add(ctx, users.User{
		Username:     params.faker.Username(),
		Email:        params.email,
		PasswordHash: passwordHash,
		HeightCm:     float64(params.faker.Number(160, 195)),
	})
	if errors.Is(err, users.ErrEmailTaken) {
		return fmt.Errorf("user [%s] already seeded, pick another -email", params.email)
	}
	if err != nil {
		return fmt.Errorf("add user: %w", err)
	}
	log.Infof("created user %d [%s]", user.ID, user.Email)

	if err := usersRepo.UpdateDifficulty(ctx, user.ID, engine.DifficultyProfile{Tier: engine.TierIntermediate}); err != nil {
		return fmt.Errorf("set difficulty: %w", err)
	}

	exercisesRepo := exercises.NewRepo(dbPool)
	catalog := make([]*exercises.Exercise, 0, len(demoCatalog))
	for _, d := range demoCatalog {
		ex, err := exercisesRepo.Add(ctx, exercises.Exercise{
			UserID:   user.ID,
			Name:     d.name,
			Category: d.category,
		})
		if err != nil {
			return fmt.Errorf("add exercise [%s]: %w", d.name, err)
		}
		catalog = append(catalog, ex)
	}

	logsRepo := logs.NewRepo(dbPool)
	// no metrics endpoint here, counters only need a registry to live in
	metricsManager := metrics.NewManager("trainlog", "seed", prometheus.NewRegistry())
	weights := bodyweight.NewService(bodyweight.NewRepo(dbPool), metricsManager)

	today := pkg.Today()
	start := today.AddDate(0, 0, -(params.days - 1))
	weightKg := params.faker.Float64Range(70, 95)
	logged, gapFilled := 0, 0
	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		// skip some reports so the history gets synthetic gap days
		if params.faker.Number(1, 100) <= 80 || day.Equal(start) {
			weightKg += params.faker.Float64Range(-0.4, 0.35)
			_, filled, err := weights.Record(ctx, user.ID, day, math.Round(weightKg*10)/10)
			if err != nil {
				return fmt.Errorf("record weight of %s: %w", pkg.FormatDay(day), err)
			}
			gapFilled += filled
		}

		if params.faker.Number(1, 100) > 55 {
			continue
		}
		exercisesToday := params.faker.Number(2, 5)
		for i := 0; i < exercisesToday; i++ {
			idx := params.faker.Number(0, len(catalog)-1)
			ex := catalog[idx]
			entry := logs.LogEntry{
				UserID:     user.ID,
				ExerciseID: ex.ID,
				Date:       day,
				Sets:       params.faker.Number(2, 5),
				Reps:       params.faker.Number(5, 12),
				Weight:     demoCatalog[idx].weight * params.faker.Float64Range(0.8, 1.15),
			}
			entry.Weight = math.Round(entry.Weight*2) / 2
			if params.faker.Number(1, 100) <= 15 {
				entry.Comment = params.faker.Sentence(6)
			}
			if err := entry.Engine().Validate(); err != nil {
				return fmt.Errorf("generated invalid entry: %w", err)
			}
			if _, err := logsRepo.Add(ctx, entry); err != nil {
				return fmt.Errorf("add workout log: %w", err)
			}
			logged++
		}
	}

	log.Infof("added %d workout logs, %d synthetic body weight days", logged, gapFilled)
	return nil
}
