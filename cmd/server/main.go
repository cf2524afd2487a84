package main

import (
	"github.com/joho/godotenv"

	"hradmin/internal/app/server"
)

func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	server.Run()
}
