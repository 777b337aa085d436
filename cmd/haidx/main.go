package main

import "github.com/aalvaropc/haidx/internal/cli"

func main() {
	cli.Execute()
}
