package main

import "github.com/tahmarrrr23/tappval/cmd"

func main() {
	cmd.Execute()
}
