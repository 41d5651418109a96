//go:build !tinygo

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"rugos/internal/config"
)

func main() {
	var (
		inPath = flag.String("in", "", "Boot file (.yaml). Empty prints the built-in default.")
		format = flag.String("format", "table", "table|yaml.")
	)
	flag.Parse()

	f := config.Default()
	if *inPath != "" {
		var err error
		if f, err = config.Load(*inPath); err != nil {
			fatalf("%v", err)
		}
	}

	switch strings.ToLower(*format) {
	case "table":
		if err := writeTable(os.Stdout, f); err != nil {
			fatalf("write: %v", err)
		}
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			fatalf("encode: %v", err)
		}
		_ = enc.Close()
	default:
		fatalf("unknown format: %s", *format)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

// writeTable prints one row per slot with its offset in the worst-case
// major frame, then the frame length.
func writeTable(w io.Writer, f *config.File) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLOT\tTASK\tMAX SLICE\tOFFSET")
	var offset uint64
	for i, s := range f.Kernel.Schedule {
		fmt.Fprintf(tw, "%d\t%s\t%dms\t%dms\n", i, s.Name, s.MaxSlice, offset)
		offset += s.MaxSlice
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "major frame: %dms, sporadic budget: %dms, demos: %s\n",
		f.MajorFrame(), f.Kernel.MaxExecutionTime, strings.Join(f.Demos, ","))
	return err
}
