// hubctl runs the Alkarama Hub matcher against a record store from the shell.
package main

import (
	"os"

	"github.com/alkarama/hub/cmd/hubctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
