// Command convert translates a single XDSL file to pyAgrum construction
// code: the generated Python goes to stdout or to the -o file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pgmkit/xdslconv/internal/converter"
)

func main() {
	output := flag.String("o", "", "write generated code to this file instead of stdout")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-o output.py] input.xdsl\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	conv := converter.New(nil)
	if err := conv.Parse(flag.Arg(0)); err != nil {
		log.Fatalf("conversion failed: %v", err)
	}

	code := conv.GenerateCode()

	if *output == "" {
		fmt.Print(code)
		return
	}
	if err := os.WriteFile(*output, []byte(code), 0644); err != nil {
		log.Fatalf("failed to write %s: %v", *output, err)
	}
}
