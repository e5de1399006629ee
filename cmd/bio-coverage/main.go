package main

import "github.com/grailbio/coverage/cmd/bio-coverage/cmd"

func main() {
	cmd.Run()
}
