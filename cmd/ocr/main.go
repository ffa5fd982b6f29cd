package main

import (
	"log"
	"os"
)

func main() {
	cli, err := NewCLI()
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	if err := cli.Run(os.Args[1:]); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
