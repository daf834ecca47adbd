package main

import "patchstatus/internal/cli"

func main() {
	cli.Execute()
}
