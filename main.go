package main

import "github.com/agentic-research/dbgmodel/cmd"

func main() {
	cmd.Execute()
}
