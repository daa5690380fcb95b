/*
Copyright © 2024 huimingz

commitgen - AI-powered commit message generation
*/
package main

import (
	"os"

	"github.com/huimingz/commitgen/internal/cli"
	"github.com/huimingz/commitgen/internal/log"
)

// Version information (injected at build time)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	cli.SetVersionInfo(Version, GitCommit, BuildTime)
	if err := cli.Execute(); err != nil {
		if !cli.IsReported(err) {
			log.Error("%v", err)
		}
		os.Exit(1)
	}
}
