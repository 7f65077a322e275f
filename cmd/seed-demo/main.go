package main

import (
	"context"
	"fmt"
	"time"

	"github.com/collectivefm/collective-backend/internal/config"
	"github.com/collectivefm/collective-backend/internal/database"
	"github.com/collectivefm/collective-backend/internal/logger"
	"github.com/collectivefm/collective-backend/internal/model"
	"github.com/collectivefm/collective-backend/internal/repository"
)

// seed-demo fills an empty database with sample members and events for local
// frontend work.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	memberRepo := repository.NewMemberRepository(pool)
	eventRepo := repository.NewEventRepository(pool)

	fmt.Println("=== Seeding demo members and events ===")

	members := []struct {
		name, role, email, city, country string
	}{
		{"Nova Linde", "Producer", "nova@example.com", "Rotterdam", "Netherlands"},
		{"Juno Ferreira", "DJ", "juno@example.com", "Lisbon", "Portugal"},
		{"Mara Vogel", "Vocalist", "mara@example.com", "Berlin", "Germany"},
		{"Theo Brandt", "Sound Engineer", "theo@example.com", "Copenhagen", "Denmark"},
		{"Ines Calder", "Visual Artist", "ines@example.com", "Barcelona", "Spain"},
	}

	for _, m := range members {
		city, country := m.city, m.country
		member := &model.Member{
			Name:             m.name,
			Role:             m.role,
			Email:            m.email,
			City:             &city,
			Country:          &country,
			PortfolioImages:  []string{},
			SoundcloudEmbeds: []string{},
			SpotifyEmbeds:    []string{},
		}
		if err := memberRepo.Create(ctx, member); err != nil {
			log.Fatal().Err(err).Str("name", m.name).Msg("Failed to seed member")
		}
		fmt.Printf("Created member %q with ID %d\n", member.Name, member.ID)
	}

	events := []struct {
		title       string
		daysFromNow int
		description string
	}{
		{"Open Decks Night", 14, "Monthly open decks session, all genres welcome."},
		{"Label Showcase", 45, "Full roster showcase with live visuals."},
		{"Warehouse Session", -30, "Past warehouse session, archived for the timeline."},
	}

	for _, e := range events {
		event := &model.Event{
			Title:       e.title,
			Date:        time.Now().AddDate(0, 0, e.daysFromNow),
			Description: e.description,
		}
		if err := eventRepo.Create(ctx, event); err != nil {
			log.Fatal().Err(err).Str("title", e.title).Msg("Failed to seed event")
		}
		fmt.Printf("Created event %q with ID %d\n", event.Title, event.ID)
	}

	fmt.Println("Done.")
}
