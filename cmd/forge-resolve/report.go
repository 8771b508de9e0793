package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/bayleafwalker/forge-core/internal/build"
)

// writeReport prints one block per resolved release followed by the
// circular chains.
func writeReport(w io.Writer, result *build.BuildResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, info := range result.All() {
		m := info.Metadata()
		kind := "module"
		if info.Role() {
			kind = "role"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Name, m.Version, kind)
		if info.File() != "" {
			fmt.Fprintf(tw, "  file\t%s\n", info.File())
		}
		for _, r := range info.Resolutions() {
			fmt.Fprintf(tw, "  requires\t%s\t-> %s\n", r.Dependency, r.Info.Metadata().Release())
		}
		for _, dep := range info.Unresolved() {
			fmt.Fprintf(tw, "  unresolved\t%s\n", dep)
		}
	}
	for _, label := range result.Circularities() {
		fmt.Fprintf(tw, "circular\t%s\n", label)
	}
	return tw.Flush()
}
