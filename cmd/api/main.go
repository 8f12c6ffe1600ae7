package main

import (
	"log"

	"boxoffice/internal/app/bootstrap"
)

func main() {
	app, err := bootstrap.BuildAPI()
	if err != nil {
		log.Fatalf("build api: %v", err)
	}
	if err := app.Run(); err != nil {
		log.Fatalf("api stopped: %v", err)
	}
}
