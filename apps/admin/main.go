// Command facschedctl is the admin CLI: it parses, renders and exports timetables,
// runs database migrations and mints development tokens.
package main

import (
	"log"
	"os"

	"github.com/facsched/backend/core"
)

func main() {
	logger := log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	cli := &commandLine{
		conf:   core.NewConfig(),
		out:    os.Stdout,
		logger: logger,
	}
	if err := newRootCmd(cli).Execute(); err != nil {
		logger.Printf("error: %s\n", err)
		os.Exit(1)
	}
}
