package main

import (
	"log"

	"moderation-console/internal/app"
)

func main() {
	application, err := app.NewConsoleApp()
	if err != nil {
		log.Fatalf("Failed to initialize console: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Console run failed: %v", err)
	}
}
