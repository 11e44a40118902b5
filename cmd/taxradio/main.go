// Command taxradio renders, inspects, picks and serves single-selection
// taxonomy panels backed by a YAML fixture or a Postgres database.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
