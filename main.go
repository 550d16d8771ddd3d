// Package main is the entry point for the barrank CLI tool, which turns
// stored match history into nation rankings and team structures.
package main

import "barrank/cmd"

func main() {
	cmd.Execute()
}
