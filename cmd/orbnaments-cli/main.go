package main

import "orbnaments/cmd/orbnaments-cli/cmd"

func main() {
	cmd.Execute()
}
