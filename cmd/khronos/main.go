package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sibeni-li/khronos/internal/client/cli"
)

func main() {
	root := cli.NewRootCommand(os.Stdin, os.Stdout)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
