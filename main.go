package main

import "github.com/eqpop/poptracker/cmd"

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cmd.Execute(version, commit)
}
