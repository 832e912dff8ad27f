package main

import "mdchunk/internal/cli"

func main() {
	cli.Execute()
}
