package main

import "github.com/fekuna/omnipos-catalog-service/cmd/catalog/commands"

func main() {
	commands.Execute()
}
