// Command hivedump is a small inspection tool for the streaming container
// format: it prints occupancy stats and lists every non-default voxel in a
// volume read from a file. It exists only to exercise the public API
// end-to-end and is not part of the core library.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nektarfx/hive/store"
)

func main() {
	path := flag.String("f", "", "path to a nektar streaming container")
	limit := flag.Int("limit", 20, "maximum number of tuples to print (0 = all)")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: hivedump -f <file>")
		os.Exit(2)
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatalf("hivedump: %v", err)
	}
	defer f.Close()

	v, attrs, err := store.ReadVolumeStream[float64](f)
	if err != nil {
		log.Fatalf("hivedump: reading %s: %v", *path, err)
	}

	fmt.Printf("lgNode=%d lgCell=%d depth=%d fill=%v attributes=%d\n",
		v.LgNode(), v.LgCell(), v.Depth(), v.FillValue(), attrs.Count())

	count := 0
	it := v.SetIterator()
	for it.Valid() {
		if *limit == 0 || count < *limit {
			i, j, k := it.Coordinates()
			fmt.Printf("(%d,%d,%d) = %v\n", i, j, k, it.Value())
		}
		count++
		it.Advance()
	}
	fmt.Printf("%d non-default voxels", count)
	if *limit != 0 && count > *limit {
		fmt.Printf(" (%d printed)", *limit)
	}
	fmt.Println()
}
