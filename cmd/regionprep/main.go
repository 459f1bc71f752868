// regionprep fetches a raw municipal boundary export, merges multi-part
// municipalities into single regions, and writes the merged GeoJSON that the
// API server loads at startup. Run it whenever the upstream export changes.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/samirrijal/begiramap/internal/adapters/boundary"
)

func main() {
	if len(os.Args) < 3 {
		log.Fatal("usage: regionprep <source-url-or-file> <output-file>")
	}
	source, output := os.Args[1], os.Args[2]

	idx, err := boundary.NewLoader(nil).Load(context.Background(), source)
	if err != nil {
		log.Fatalf("load boundaries: %v", err)
	}

	merged := idx.MergedGeoJSON()
	if err := os.WriteFile(output, merged, 0o644); err != nil {
		log.Fatalf("write %s: %v", output, err)
	}

	for _, r := range idx.Regions() {
		fmt.Printf("OK  %-8s %-30s parts=%d\n", r.Code, r.Name, r.Parts)
	}
	fmt.Printf("wrote %d regions to %s (%d bytes)\n", len(idx.Regions()), output, len(merged))
}
