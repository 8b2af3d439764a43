package main

import "github.com/glowfin/churnscope-cli/cmd"

func main() {
	cmd.Execute()
}
