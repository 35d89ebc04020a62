package main

import (
	"go.uber.org/automaxprocs/maxprocs"

	appLog "calpicker/internal/log"
)

// version is set at build time.
var version = "0.1.0-dev"

func main() {
	if _, err := maxprocs.Set(); err != nil {
		appLog.Warn("failed to set GOMAXPROCS", "err", err)
	}
	Execute()
}
