package main

import "github.com/josephlewis42/gosh/cmd"

func main() {
	cmd.Execute()
}
