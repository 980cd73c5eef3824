package main

import (
	"go.uber.org/automaxprocs/maxprocs"

	"jpeg2epub/cmd"
)

func main() {
	// GOMAXPROCS sizes the conversion pool when --jobs is 0.
	_, _ = maxprocs.Set()
	cmd.Execute()
}
