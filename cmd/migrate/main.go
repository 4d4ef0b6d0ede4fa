package main

import (
	"flag"
	"os"

	"projecthub/database"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	godotenv.Load()

	steps := flag.Int("steps", 1, "number of migrations to roll back with down")
	flag.Parse()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		logrus.Fatal("DATABASE_URL not set")
	}

	direction := flag.Arg(0)
	if direction == "" {
		direction = "up"
	}

	var err error
	switch direction {
	case "up":
		err = database.MigrateUp(databaseURL)
	case "down":
		err = database.MigrateDown(databaseURL, *steps)
	default:
		logrus.Fatalf("unknown direction %q, want up or down", direction)
	}
	if err != nil {
		logrus.Fatal("Migration failed: ", err)
	}
}
