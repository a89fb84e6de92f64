package main

import "github.com/dayuer/fmp-mcp-go/cmd"

func main() {
	cmd.Execute()
}
