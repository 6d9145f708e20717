package main

import "github.com/dgallion1/sectree/internal/cli"

func main() {
	cli.Execute()
}
