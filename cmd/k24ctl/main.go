package main

import (
	"github.com/joho/godotenv"

	"k24chat/internal/cli"
)

func main() {
	_ = godotenv.Load(".env")
	cli.Execute()
}
