package main

import "github.com/mouse-blink/unrotate/cmd"

func main() {
	cmd.Execute()
}
