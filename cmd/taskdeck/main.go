// Package main is the single-binary entrypoint for taskdeck.
// The same binary is the dashboard client and the task API server.
package main

import "github.com/taskdeck/taskdeck/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
