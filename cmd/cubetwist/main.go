// cubetwist - terminal twisty puzzle simulator with a session journal.
package main

import (
	"github.com/SeamusWaldron/cubetwist/internal/cli"
)

func main() {
	cli.Execute()
}
