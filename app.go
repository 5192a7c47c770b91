package main

import "github.com/masmgr/cobwalk-go/cmd"

func main() {
	cmd.Run()
}
