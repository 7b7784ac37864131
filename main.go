package main

import "gwprobe/cmd"

func main() {
	cmd.Execute()
}
