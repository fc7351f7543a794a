// Package main is the entry point for vidshelf.
package main

import (
	"github.com/samber/lo"
	"github.com/vidshelf/vidshelf/cmd"
	"github.com/vidshelf/vidshelf/config"
	"github.com/vidshelf/vidshelf/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
