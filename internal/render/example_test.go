package render_test

import (
	"fmt"

	"invoicer/internal/render"
)

func ExampleParseVariant() {
	fmt.Println(render.ParseVariant("minimal"))
	fmt.Println(render.ParseVariant("no-such-layout"))
	// Output:
	// minimal
	// professional
}
