package main

import (
	"os"

	"github.com/sofmeright/gitlint/src/cli/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
