package main

import (
	"log"

	"github.com/MrSnakeDoc/mapbuddy/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ mapbuddy failed to start: %v", err)
	}
}
