package main

import (
	"github.com/ironsheep/faces-detector/internal/cli"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cli.Version = Version
	cli.BuildDate = BuildTime
	cli.CommitSHA = GitCommit

	cli.Execute()
}
