package main

import (
	"log"
	"os"

	"github.com/fleetproof/fleet-engine/internal/client"
)

func main() {
	log.Println("Starting Fleet Engine player host...")

	port := getEnvOrDefault("CLIENT_PORT", "3000")
	chainURL := getEnvOrDefault("CHAIN_URL", "http://localhost:3001")

	builder := client.NewBuilder(client.NewChainClient(chainURL))
	router := client.SetupRouter(builder)

	log.Printf("Player host listening on :%s (chain at %s)", port, chainURL)
	if err := router.Run("0.0.0.0:" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// getEnvOrDefault returns the env var value or a safe default for
// non-secret settings.
func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
