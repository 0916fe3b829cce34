// Command s3zip packs one or more SQLite database files into a single
// ZIP archive (using ZIP64 framing only where a size or offset needs
// it), one DEFLATE-compressed member per input, where each
// member's content is that database's logical page image captured
// under a consistent snapshot across every input.
//
// Usage: s3zip archive.zip database...
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/blgl/s3zip/pkg/deflate"
	"github.com/blgl/s3zip/pkg/diagnostics"
	"github.com/blgl/s3zip/pkg/orchestrator"
	"github.com/blgl/s3zip/pkg/pagesource/sqlitesource"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	reporter := diagnostics.NewStreamReporter(os.Stderr)

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: s3zip archive.zip database...")
		return 1
	}
	archivePath, inputPaths := args[0], args[1:]

	engine, err := deflate.NewFlateEngine()
	if err != nil {
		reporter.Error(err)
		return 1
	}

	o := &orchestrator.Orchestrator{
		Source:   sqlitesource.New(),
		Engine:   engine,
		Reporter: reporter,
	}
	if err := o.Run(context.Background(), archivePath, inputPaths); err != nil {
		return 1
	}
	return 0
}
