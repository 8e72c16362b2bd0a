package main

import (
	"fmt"
	"os"

	"github.com/armature-io/armature/cli"
	"github.com/armature-io/armature/internal/demo"
)

func main() {
	reg, err := demo.NewRegistry()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	os.Exit(cli.Execute(reg))
}
