package main

import (
	"os"

	"github.com/shouni/go-covid-stats/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
