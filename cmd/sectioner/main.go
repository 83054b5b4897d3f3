package main

import "github.com/tsawler/sectioner/internal/cli"

func main() {
	cli.Execute()
}
