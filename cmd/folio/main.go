// Command folio serves the portfolio templates and their editor, exports
// them as static HTML, and prints the record a template renders.
//
// Usage:
//
//	folio serve  [--port 8080] [--db data/folio.db]
//	folio export [--out public]
//	folio show   <portfolio|developer|saas>
//
// Every setting can also come from ./folio.yaml (or --config) and from
// FOLIO_* environment variables; see internal/config.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
