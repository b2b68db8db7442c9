package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"reelsmith/api"
	"reelsmith/config"
	"reelsmith/pipeline"
	"reelsmith/types"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	scriptPath := flag.String("script", "", "render one script JSON file and exit")
	optionsPath := flag.String("options", "", "composition options YAML file")
	flag.Parse()

	opts := config.DefaultOptions()
	if *optionsPath != "" {
		loaded, err := config.Load(*optionsPath)
		if err != nil {
			log.Fatalf("load options: %v", err)
		}
		opts = loaded
	}

	if *scriptPath != "" {
		if err := renderOnce(*scriptPath, opts); err != nil {
			log.Fatalf("render failed: %v", err)
		}
		return
	}

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	r := api.NewRouter(opts)
	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET  /health")
	log.Println("  POST /api/reels")
	log.Println("  GET  /api/reels")
	log.Println("  GET  /api/reels/:id")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func renderOnce(path string, opts config.Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	script, err := types.ParseScript(data)
	if err != nil {
		return fmt.Errorf("parse script: %w", err)
	}

	result, err := pipeline.New(opts).CreateReel(context.Background(), script)
	if err != nil {
		return err
	}
	log.Printf("Reel ready: %s (%.1fs)", result.Path, result.Duration)
	return nil
}
