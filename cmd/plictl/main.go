// Command plictl talks to a PL solar charge controller through a PLI
// serial interface adaptor.
package main

import "github.com/moffa90/go-pli/internal/cli"

func main() {
	cli.Execute()
}
