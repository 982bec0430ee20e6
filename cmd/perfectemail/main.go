package main

import (
	"fmt"
	"os"

	"github.com/dgellow/perfectemail/internal/cli"
)

var BuildVersion = "dev"

func main() {
	if err := cli.Execute(BuildVersion); err != nil {
		if !cli.IsSilent(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
