// The flowprop command runs the example flowsheet models that ship with
// the flowprop property packages.
package main

import (
	"github.com/joho/godotenv"

	"github.com/prosimlab/flowprop/cmd/flowprop/cmd"
)

func main() {
	// A missing .env file is fine, flags have defaults.
	_ = godotenv.Load()

	cmd.Execute()
}
