package main

import (
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is fine. Environment variables stay untouched.
	_ = godotenv.Load()

	Execute()
}
