package main

import (
	"log"

	"alfredoptarigan/ats-checker/internal/config"
	"alfredoptarigan/ats-checker/internal/server"
)

func main() {
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	if err := server.Run(cfg); err != nil {
		log.Fatalf("❌ %v", err)
	}
}
