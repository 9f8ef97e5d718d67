package main

import "github.com/tessro/lounge/internal/cli"

func main() {
	cli.Execute()
}
