// Command translit applies a built-in transform to standard input.
//
//	echo 'Бельгия' | translit -id uz_Cyrl-uz_Latn
//	echo 'Belgiya' | translit -id uz_Cyrl-uz_Latn -inverse
//	translit -list
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/transform"

	"github.com/az-ai-labs/az-translit/builtin"
	"github.com/az-ai-labs/az-translit/translit"
)

func main() {
	id := flag.String("id", "", "transform id, or several joined with ';'")
	inverse := flag.Bool("inverse", false, "apply the inverse of the transform")
	list := flag.Bool("list", false, "list the available transform ids")
	flag.Parse()

	reg := builtin.Registry()
	if *list {
		for _, name := range reg.IDs() {
			fmt.Println(name)
		}
		return
	}
	if *id == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -id <transform> [-inverse] < input\n", os.Args[0])
		os.Exit(2)
	}

	t, err := reg.Lookup(*id)
	if err != nil {
		if errors.Is(err, translit.ErrUnknownTransform) {
			fmt.Fprintf(os.Stderr, "Unknown transform %q; run with -list\n", *id)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
	if *inverse {
		if t, err = t.Inverse(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if n := len(t.Warnings()); n > 0 {
			fmt.Fprintf(os.Stderr, "%s: %d ambiguous inversions\n", t.ID(), n)
		}
	}

	r := transform.NewReader(os.Stdin, t.Transformer())
	if _, err := io.Copy(os.Stdout, r); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
