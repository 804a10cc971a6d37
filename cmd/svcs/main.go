package main

import (
	"os"

	"github.com/systemshift/svcs/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
