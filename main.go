package main

import (
	"github.com/mwellsmd/praxis/cmd"
)

func main() {
	cmd.Execute()
}
