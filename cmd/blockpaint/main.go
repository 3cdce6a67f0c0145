// BlockPaint searches for block-painting programs that approximate a
// target image.
//
// Usage:
//
//	blockpaint <problem-id> <algorithm> [flags]
//	blockpaint replay <problem-id> <solution-file>
//	blockpaint compare <problem-id> [algorithms...]
//	blockpaint algorithms
//
// Every improvement found by a search is printed to stdout as
// "<score>|<op>|<op>|...". Diagnostics go to stderr.
//
// Build:
//
//	go build -o blockpaint ./cmd/blockpaint
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
