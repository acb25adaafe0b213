//go:build ignore

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/specvital/pyadapter/pkg/discovery"
	"github.com/specvital/pyadapter/pkg/tool/nose"
	"github.com/specvital/pyadapter/pkg/tool/pytest"
	"github.com/specvital/pyadapter/pkg/tool/unittest"
)

// Compares what each tool's reader finds under a directory.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: go run scripts/scan.go <path>\n")
		os.Exit(1)
	}

	path := os.Args[1]

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	readers := map[string]discovery.Reader{
		"nose":     nose.Reader{},
		"pytest":   pytest.Reader{},
		"unittest": unittest.Reader{},
	}

	output := map[string]interface{}{}
	for name, reader := range readers {
		result, err := discovery.NewWalker(reader).Walk(ctx, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s scan error: %v\n", name, err)
			os.Exit(1)
		}
		output[name] = map[string]interface{}{
			"filesScanned": result.Stats.FilesScanned,
			"filesMatched": result.Stats.FilesMatched,
			"filesFailed":  result.Stats.FilesFailed,
			"testCount":    result.Discovery.CountTests(),
			"duration":     result.Stats.Duration.String(),
		}
	}
	json.NewEncoder(os.Stdout).Encode(output)
}
