package main

import (
	"os"

	"github.com/rami3l/blox/cmd"
)

func main() { os.Exit(cmd.Execute()) }
