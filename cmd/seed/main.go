package main

import (
	"context"
	"log"

	"astrotalk/internal/auth"
	"astrotalk/internal/config"
	"astrotalk/internal/db"
	"astrotalk/internal/models"
	"astrotalk/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type seedAstrologer struct {
	username    string
	email       string
	displayName string
	bio         string
	languages   []string
	expertise   []string
	rate        string
	online      bool
}

var seedData = []seedAstrologer{
	{
		username:    "rama1",
		email:       "rama1@example.com",
		displayName: "Pandit Rama",
		bio:         "Expert in Vedic Astrology with 10 years experience.",
		languages:   []string{"Hindi", "English"},
		expertise:   []string{"Horoscope", "Matchmaking"},
		rate:        "50.00",
		online:      true,
	},
	{
		username:    "sita2",
		email:       "sita2@example.com",
		displayName: "Astro Sita",
		bio:         "Specialist in Palmistry & Tarot Reading.",
		languages:   []string{"English", "Bengali"},
		expertise:   []string{"Tarot", "Palmistry"},
		rate:        "0",
		online:      true,
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	ctx := context.Background()
	users := store.NewUserStore(database)
	astrologers := store.NewAstrologerStore(database)

	if _, err := users.GetByHandle(ctx, seedData[0].email); err == nil {
		log.Println("seed data already exists, skipping")
		return
	}

	err = db.WithTx(ctx, database, func(tx *sqlx.Tx) error {
		for _, item := range seedData {
			passwordHash, err := auth.HashPassword("password123")
			if err != nil {
				return err
			}
			userID := uuid.NewString()
			if err := users.Create(ctx, tx, userID, item.username, item.email, passwordHash, models.RoleAstrologer); err != nil {
				return err
			}
			if err := astrologers.Upsert(ctx, tx, store.UpsertProfileInput{
				ID:            uuid.NewString(),
				UserID:        userID,
				DisplayName:   item.displayName,
				Bio:           item.bio,
				Languages:     item.languages,
				Expertise:     item.expertise,
				PerMinuteRate: item.rate,
				IsOnline:      item.online,
			}); err != nil {
				return err
			}
			log.Printf("seeded astrologer %s (%s/min)", item.displayName, item.rate)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	log.Println("seed data inserted")
}
