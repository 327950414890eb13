package main

import "github.com/fzorr369/KI-Use-Case-Demo/cmd"

func main() {
	cmd.Execute()
}
