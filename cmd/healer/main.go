package main

import (
	"github.com/soroush-saki/self-healing-framework/internal/cli"
)

func main() {
	cli.Execute()
}
