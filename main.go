package main

import "github.com/Mariana-Codebase/Miniko-Platform/cmd"

func main() {
	cmd.Execute()
}
