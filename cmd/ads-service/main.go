package main

import (
	"log"

	"moderation-console/internal/app"
)

func main() {
	application, err := app.NewAdsServiceApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Application run failed: %v", err)
	}
}
