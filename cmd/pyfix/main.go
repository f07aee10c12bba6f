// Package main is the entry point for pyfix.
package main

import (
	"os"
)

func main() {
	os.Exit(Execute())
}
