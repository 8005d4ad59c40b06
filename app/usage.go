package app

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/vk/flagkit"
)

// writeUsage renders the full help text: one section per module with key
// flags, generated from the registry's key-flag index.
func writeUsage(w io.Writer, progName string, fv *flagkit.FlagValues) {
	fmt.Fprintf(w, "Usage: %s [flags] [args]\n\n", filepath.Base(progName))
	fmt.Fprint(w, fv.Help())
}
