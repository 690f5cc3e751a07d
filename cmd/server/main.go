package main

import (
	"github.com/joho/godotenv"

	"hrms/internal/app/server"
)

func main() {
	// Missing .env is fine; production deployments configure via real env vars.
	_ = godotenv.Load()

	server.Run()
}
