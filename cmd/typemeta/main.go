// Command typemeta queries type metadata loaded from YAML manifests and Go
// packages: type info, dependency order, module reachability and type node
// text.
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
