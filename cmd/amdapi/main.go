package main

import "github.com/amdapi/amdapi-go/internal/cli"

func main() {
	cli.Execute()
}
