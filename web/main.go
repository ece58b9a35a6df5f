package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/df07/go-flat-raytracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	envFile := flag.String("config", ".env", "Optional .env file with RAYTRACER_* settings")
	scenesDir := flag.String("scenes", "", "Directory with YAML scenes (default $RAYTRACER_SCENES_DIR or scenes)")
	flag.Parse()

	_ = godotenv.Load(*envFile)
	if *scenesDir == "" {
		*scenesDir = os.Getenv("RAYTRACER_SCENES_DIR")
	}
	if *scenesDir == "" {
		*scenesDir = "scenes"
	}

	// Create and start web server
	webServer := server.NewServer(*port, *scenesDir)

	log.Printf("Flat Raytracer Web Server")
	log.Printf("Try http://localhost:%d/api/render?scene=default", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
