// Package main provides the colporter CLI: a converter from Anki .colpkg
// collection archives to a plain JSON document plus extracted media.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}
