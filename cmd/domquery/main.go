package main

import "domquery/internal/cli"

func main() {
	cli.Execute()
}
