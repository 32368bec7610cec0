package main

import "github.com/AraragiEro/kahuna-bot/internal/adapters/cli"

func main() {
	cli.Execute()
}
