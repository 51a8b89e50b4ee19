// Runs the built-in axiom screening cases and exits non-zero on any failure
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/hallucheck/internal/axiom"
)

func main() {
	fmt.Println("=== Axiom Screening Benchmark ===")
	fmt.Println()

	res := axiom.RunBenchmark(axiom.NewScreener())
	for _, d := range res.Details {
		status := "PASS"
		if !d.Pass {
			status = "FAIL"
		}
		fmt.Printf("  [%s] %s\n", status, d.Test)
		fmt.Printf("         %s\n", d.Detail)
	}

	fmt.Println()
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("SCORE: %s\n", res.Score)

	if res.Passed != res.Total {
		os.Exit(1)
	}
}
