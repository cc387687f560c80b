package main

import "github.com/equiptrack/inventory-management/cmd"

func main() {
	cmd.Execute()
}
