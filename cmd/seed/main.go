// Command seed populates the database with demo data.
package main

import (
	"context"
	"flag"
	"log"

	"mealslan/internal/config"
	"mealslan/internal/database"
	"mealslan/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of users to create")
	numRecipes := flag.Int("recipes", 30, "Number of recipes to create")
	likesPerUser := flag.Int("likes", 3, "Likes each user hands out")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	preset := flag.String("preset", "", "Apply a YAML preset file instead of random data")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *preset != "" {
		log.Printf("Applying preset %s (ignoring count flags)", *preset)
		p, err := seed.LoadPreset(*preset)
		if err != nil {
			log.Fatalf("Preset load failed: %v", err)
		}
		if *shouldClean {
			if err := database.Reset(db); err != nil {
				log.Fatalf("Cleanup failed: %v", err)
			}
		}
		if err := p.Apply(context.Background(), db); err != nil {
			log.Fatalf("Preset seeding failed: %v", err)
		}
		log.Println("Preset applied")
		return
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:     *numUsers,
		NumRecipes:   *numRecipes,
		LikesPerUser: *likesPerUser,
		ShouldClean:  *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Seeding complete")
}
