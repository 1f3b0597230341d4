package main

import "github.com/papapumpkin/housekeeper/cmd"

func main() {
	cmd.Execute()
}
