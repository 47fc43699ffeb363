package main

import cmd "github.com/rohmanhakim/conditions/internal/cli"

func main() {
	cmd.Execute()
}
