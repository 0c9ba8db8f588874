package main

import "nestedset/cmd/nestedset-cli/cmd"

func main() {
	cmd.Execute()
}
