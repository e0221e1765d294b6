// Package main is the single-binary entrypoint for the AgriPath
// companion — the local engine behind the gamified farmer-education UI.
package main

import "github.com/agripath-app/agripath/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
