package main

import "github.com/mabhi256/tastybuild/cmd"

func main() {
	cmd.Execute()
}
