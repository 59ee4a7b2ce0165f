// Command tofico serves and manages the location evaluation matrix.
package main

import "github.com/ficrammanifur/tofico-analyzer-backend/internal/cli"

func main() {
	cli.Execute()
}
