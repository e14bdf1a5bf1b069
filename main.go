package main

import "github.com/maksy5310/cursor-transcript/cmd"

func main() {
	cmd.Execute()
}
