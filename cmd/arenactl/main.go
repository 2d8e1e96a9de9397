// Command arenactl is the client CLI for the RPS arena engine: submit
// bots, run ad-hoc admission tests, list the registry, and watch a
// tournament bracket resolve live.
package main

import "github.com/rpsarena/engine/internal/cli"

func main() {
	cli.Execute()
}
