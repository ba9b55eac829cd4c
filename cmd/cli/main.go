package main

import "bookden/cmd/cli/command"

func main() {
	command.Execute()
}
