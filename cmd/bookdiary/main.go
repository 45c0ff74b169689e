package main

import (
	"log"

	"bookdiary/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		log.Fatalf("bookdiary: failed to start: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("bookdiary: %v", err)
	}
}
