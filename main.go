package main

import "github.com/joshhunt/marquee/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
