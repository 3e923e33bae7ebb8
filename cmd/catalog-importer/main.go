// cmd/catalog-importer - loads an achievement catalog JSON file into the
// record store, optionally seeding a user's initial rows.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"edvantage/logging"
	"edvantage/models"
	"edvantage/storage"
)

func main() {
	catalogPath := flag.String("catalog", "./data/catalog.json", "path to the catalog JSON file")
	dbPath := flag.String("db", "./data/edvantage.db", "path to the record store database")
	userID := flag.String("user", "catalog", "user id to seed rows for (default: the catalog template user)")
	flag.Parse()

	logger, err := logging.New(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	data, err := os.ReadFile(*catalogPath)
	if err != nil {
		log.Fatal("Failed to read catalog file:", err)
	}

	var catalog []models.Achievement
	if err := json.Unmarshal(data, &catalog); err != nil {
		log.Fatal("Failed to parse catalog JSON:", err)
	}

	fmt.Printf("Found %d achievements\n\n", len(catalog))

	seen := make(map[string]bool)
	for _, a := range catalog {
		if a.ID == "" {
			log.Fatalf("Achievement %q has no id", a.Title)
		}
		if seen[a.ID] {
			log.Fatalf("Duplicate achievement id %q", a.ID)
		}
		if a.MaxProgress <= 0 {
			log.Fatalf("Achievement %q has invalid max progress %d", a.ID, a.MaxProgress)
		}
		seen[a.ID] = true
	}

	store := storage.NewRecordStore(*dbPath, 1, logger,
		&models.AchievementRecord{}, &models.SnapshotRecord{})

	ctx := context.Background()
	if err := store.Open(ctx); err != nil {
		log.Fatal("Failed to open record store:", err)
	}
	defer store.Close()

	imported := 0
	for _, a := range catalog {
		fmt.Printf("Importing: %s\n", a.Title)
		row := models.AchievementRecord{
			UserID:        *userID,
			AchievementID: a.ID,
			Title:         a.Title,
			Description:   a.Description,
			Category:      a.Category,
			Icon:          a.Icon,
			Points:        a.Points,
			MaxProgress:   a.MaxProgress,
		}
		if err := store.Put(ctx, &row); err != nil {
			log.Fatalf("Failed to import %q: %v", a.ID, err)
		}
		imported++
	}

	fmt.Printf("\nImported %d achievements for user %q\n", imported, *userID)
}
