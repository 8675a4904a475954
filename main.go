package main

import (
	"os"

	"github.com/yijhen/sakura-comments/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
