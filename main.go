package main

import (
	cmd "github.com/ShafaqShahid/LoadTestGMC/internal/cli"
)

func main() {
	cmd.Execute()
}
