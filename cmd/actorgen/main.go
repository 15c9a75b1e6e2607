// Command actorgen synthesizes actors from the message sets and states declared in a Go source file.
//
// It's meant to be invoked by go generate:
//
//	//go:generate go run github.com/italypaleale/actorgen/cmd/actorgen counter.actors.go
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := newCommand()
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "actorgen:", err)
		os.Exit(1)
	}
}
