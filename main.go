package main

import (
	"os"

	"github.com/livingdoc/analysis-core/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
