// Command seed creates the schema and loads trivia fixtures into the
// configured database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"triviaapi/auth"
	"triviaapi/config"
	"triviaapi/db"
	"triviaapi/logger"
	"triviaapi/services"
)

func main() {
	file := flag.String("file", "", "YAML fixtures file (defaults to the embedded set)")
	hashPassword := flag.String("hash-password", "", "print the bcrypt hash for an admin password and exit")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := auth.HashPassword(*hashPassword)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		bootLog := logger.New("local", "info")
		bootLog.Fatal().Err(err).Msg("could not load config")
	}
	log := logger.New(cfg.Primary.Env, cfg.Primary.LogLevel)
	ctx := context.Background()

	fixtures, err := loadFixtures(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load fixtures")
	}

	store, err := db.Connect(ctx, cfg.Database, cfg.Primary.Env, log)
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize database")
	}
	defer store.Close()

	res, err := services.Seed(ctx, store, fixtures)
	if err != nil {
		store.Close()
		log.Fatal().Err(err).Msg("seeding failed")
	}
	log.Info().
		Int("categories_created", res.CategoriesCreated).
		Int("questions_created", res.QuestionsCreated).
		Msg("database seeded")
}

func loadFixtures(path string) (*services.Fixtures, error) {
	if path == "" {
		return services.DefaultFixtures()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return services.LoadFixtures(f)
}
