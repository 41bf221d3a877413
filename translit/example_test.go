package translit_test

import (
	"fmt"

	"github.com/az-ai-labs/az-translit/builtin"
	"github.com/az-ai-labs/az-translit/translit"
)

func ExampleRegistry_Lookup() {
	t, err := builtin.Registry().Lookup("uz_Cyrl-uz_Latn")
	if err != nil {
		panic(err)
	}
	fmt.Println(t.Apply("Ўзбекистон"))
	fmt.Println(t.Apply("Бельгия"))
	// Output:
	// Oʻzbekiston
	// Belgiya
}

func ExampleTransliterator_Inverse() {
	t, err := builtin.Registry().Lookup("az_Cyrl-az_Latn")
	if err != nil {
		panic(err)
	}
	inv, err := t.Inverse()
	if err != nil {
		panic(err)
	}
	fmt.Println(inv.ID())
	fmt.Println(inv.Apply("Azərbaycan"))
	// Output:
	// az_Latn-az_Cyrl
	// Азәрбајҹан
}

func ExampleRegistry_Lookup_compound() {
	t, err := builtin.Registry().Lookup("az_Cyrl-az_Latn;tr-Upper")
	if err != nil {
		panic(err)
	}
	fmt.Println(t.Kind(), t.Apply("Бакы"))
	// Output: chain BAKI
}

func ExampleNewRegistry() {
	reg := translit.NewRegistry()
	reg.Register("Latin-Morse", translit.Source(`
s > '...' ;
o > '---' ;
`))
	t, err := reg.Lookup("Latin-Morse")
	if err != nil {
		panic(err)
	}
	fmt.Println(t.Apply("sos"))
	// Output: ...---...
}
