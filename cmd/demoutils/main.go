package main

import "github.com/compozy/demoutils/cmd/demoutils/commands"

func main() {
	commands.Execute()
}
