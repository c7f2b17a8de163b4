// Package main is the single-binary entrypoint for StudyGram.
package main

import "github.com/studygram-app/studygram/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
