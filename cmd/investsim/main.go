package main

import "github.com/rustyeddy/investsim/internal/cli"

func main() {
	cli.Execute()
}
