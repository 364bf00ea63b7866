package main

import (
	"log"

	"github.com/blogem/contact-importer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatalf("contact-importer: %v", err)
	}
}
