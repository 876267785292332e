// Command seed populates the forum database with demo data.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"forum/internal/auth"
	"forum/internal/config"
	"forum/internal/database"
	"forum/internal/middleware"
	"forum/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numCategories := flag.Int("categories", 5, "Number of categories to create")
	numPosts := flag.Int("posts", 50, "Number of posts to create")
	comments := flag.Int("comments", 3, "Number of comments per post")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fixtures := flag.String("fixtures", "", "Load a YAML fixture file instead of random data")
	demo := flag.Bool("demo", false, "Load the built-in demo fixtures instead of random data")
	randSeed := flag.Int64("seed", 0, "Random seed (0 picks one)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.Logger = middleware.NewLogger(os.Stdout, cfg.Env)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	ctx := context.Background()
	s := seed.NewSeeder(db, auth.NewBcryptHasher(cfg.BcryptCost))

	if *fixtures == "" && !*demo {
		if _, err := s.Seed(ctx, seed.Options{
			NumUsers:        *numUsers,
			NumCategories:   *numCategories,
			NumPosts:        *numPosts,
			CommentsPerPost: *comments,
			ShouldClean:     *shouldClean,
			Seed:            *randSeed,
		}); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		log.Printf("All generated users have the password: %s", seed.DefaultPassword)
		return
	}

	var fx *seed.Fixtures
	if *demo {
		fx, err = seed.DemoFixtures()
	} else {
		var f *os.File
		f, err = os.Open(*fixtures)
		if err == nil {
			defer f.Close()
			fx, err = seed.ParseFixtures(f)
		}
	}
	if err != nil {
		log.Fatalf("Failed to read fixtures: %v", err)
	}

	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}
	if _, err := s.LoadFixtures(ctx, fx); err != nil {
		log.Fatalf("Loading fixtures failed: %v", err)
	}
}
