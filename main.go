package main

import "github.com/lukman83/offerscrap/cmd"

func main() {
	cmd.Execute()
}
