//go:build !ebiten

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "The GUI build of mad-sand requires the ebiten build tag.")
	fmt.Fprintln(os.Stderr, "Re-run with `go run -tags ebiten ./cmd/sand` or build with `-tags ebiten`.")
	fmt.Fprintln(os.Stderr, "For a headless run use ./cmd/sand-sweep.")
	os.Exit(2)
}
