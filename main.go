package main

import "github.com/encodeous/ripsim/cmd"

func main() {
	cmd.Execute()
}
