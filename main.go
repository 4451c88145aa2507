package main

import "github.com/stinkyfingers/smsbridge/cmd"

func main() {
	cmd.Execute()
}
