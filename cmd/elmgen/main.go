package main

import (
	"os"

	"github.com/teranos/elmgen/cmd/elmgen/commands"
)

func main() {
	os.Exit(commands.Execute())
}
