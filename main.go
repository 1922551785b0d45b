package main

import "Food-Inventory-Backend/cmd/commands"

func main() {
	commands.Execute()
}
