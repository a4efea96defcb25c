package main

import "github.com/fanlink/fanlink/internal/cli"

func main() {
	cli.Execute()
}
