/*
Copyright © 2025 danghm
*/
package main

import (
	"github.com/danghm/docqa-be/cmd"
	"github.com/joho/godotenv"
)

func main() {
	cmd.Execute()
}

func init() {
	// .env is optional, everything in it can come from config or flags
	godotenv.Load()
}
