package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"

	"modelcfg/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}
