// Command start runs the pipelines declared in start.yml.
package main

import (
	"os"

	"github.com/kbukum/start/internal/cli"
)

func main() {
	os.Exit(int(cli.Run(os.Args[1:], os.Stdout, os.Stderr)))
}
