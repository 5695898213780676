package main

import "github.com/vadiminshakov/deepyami/cmd"

func main() {
	cmd.Execute()
}
