package main

import (
	"os"

	"github.com/honzajavorek/karolakvido/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
