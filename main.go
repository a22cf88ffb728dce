// Package main is the entry point for the firstserve CLI tool, which imports
// historical tennis matches and keeps per-player running statistics.
package main

import "github.com/iljabvh/firstserve/cmd"

func main() {
	cmd.Execute()
}
