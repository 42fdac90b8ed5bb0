package main

import "mfeller.dev/land/cmd"

func main() {
	cmd.Execute()
}
