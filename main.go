package main

import (
	"github.com/sheersh03/CaveBeat-Search-Engine/cmd"
)

func main() {
	cmd.Execute()
}
