package main

import "github.com/kamal-hamza/docup/cmd"

func main() {
	cmd.Execute()
}
