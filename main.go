package main

import "github.com/humanitec/cursor-reset/cmd"

func main() {
	cmd.Execute()
}
