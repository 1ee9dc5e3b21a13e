package main

import "github.com/josephlewis42/myssh/cmd"

func main() {
	cmd.Execute()
}
