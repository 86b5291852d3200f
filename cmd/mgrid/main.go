package main

import (
	"github.com/ab3d1/moneygrid/internal/cli"
)

func main() {
	cli.Execute()
}
