package main

import "github.com/sakib/mankey/cmd/mankey/commands"

func main() {
	commands.Execute()
}
