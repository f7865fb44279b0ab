package main

import (
	"github.com/chalkline/chalkline/internal/cli"
)

func main() {
	cli.Execute()
}
