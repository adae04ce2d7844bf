package main

import (
	"os"

	"github.com/vilaca/dora-metrics/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
