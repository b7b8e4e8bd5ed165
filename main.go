package main

import "github.com/Niarfe/scripts-r-us/cmd"

func main() {
	cmd.Execute()
}
