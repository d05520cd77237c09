package main

import "github.com/notargets/convection/cmd"

func main() {
	cmd.Execute()
}
