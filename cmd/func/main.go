package main

import "github.com/funvibe/func/pkg/cli"

func main() {
	cli.Run()
}
