package main

import (
	"github.com/joho/godotenv"

	"parking-slot-control/cmd"
)

func main() {
	godotenv.Load()

	cmd.Execute()
}
