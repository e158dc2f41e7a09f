// Command vecsim loads a text corpus into a similarity index and queries it.
package main

import (
	"context"
	"fmt"
	"os"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	if err := NewRootCmd(version).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "vecsim:", err)
		os.Exit(1)
	}
}
