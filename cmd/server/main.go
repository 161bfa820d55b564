package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/karirkit/karirkit/internal/app"
	"github.com/karirkit/karirkit/internal/config"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	// Load .env into the environment if present. Real environment
	// variables take precedence over file values.
	if err := godotenv.Load(); err != nil {
		log.Print("no .env loaded: ", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatal("failed to create app: ", err)
	}

	if err := a.Run(); err != nil {
		log.Fatal("server error: ", err)
	}
}
