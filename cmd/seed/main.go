package main

import (
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/status-beacon/beacon/db"
	"github.com/status-beacon/beacon/internal/models"
	"github.com/status-beacon/beacon/internal/store"
)

// Starter catalog of well-known provider status pages. Seeding is
// idempotent: services whose name already exists are skipped.
var defaultServices = []models.Service{
	{Name: "aws-s3", Provider: "aws", StatusURL: "https://status.aws.amazon.com/", IsActive: true},
	{Name: "aws-ec2", Provider: "aws", StatusURL: "https://status.aws.amazon.com/", IsActive: true},
	{Name: "gcp-compute", Provider: "gcp", StatusURL: "https://status.cloud.google.com/", IsActive: true},
	{Name: "azure-storage", Provider: "azure", StatusURL: "https://status.azure.com/", IsActive: true},
	{Name: "cloudflare-cdn", Provider: "cloudflare", StatusURL: "https://www.cloudflarestatus.com/", IsActive: true},
	{Name: "github-actions", Provider: "github", StatusURL: "https://www.githubstatus.com/", IsActive: true},
	{Name: "stripe-api", Provider: "stripe", StatusURL: "https://status.stripe.com/", IsActive: true},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	dsn := os.Getenv("DATABASE_URL")

	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if err := db.ConnectDatabase(dsn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	seeded := 0

	for _, service := range defaultServices {
		svc := service

		if err := store.CreateService(&svc); err != nil {
			if errors.Is(err, store.ErrUniqueConflict) {
				log.Printf("Skipping %s: already exists", svc.Name)
				continue
			}
			log.Fatalf("Failed to seed %s: %v", svc.Name, err)
		}

		log.Printf("Seeded %s (%s)", svc.Name, svc.Provider)
		seeded++
	}

	log.Printf("Done: %d new service(s)", seeded)
}
