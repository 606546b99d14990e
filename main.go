package main

import "github.com/ryz3006/alignzo/cmd"

func main() {
	cmd.Execute()
}
