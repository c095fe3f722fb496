package scan_test

import (
	"fmt"

	"github.com/matzehuels/kbmatrix/pkg/scan"
)

func ExampleExtract() {
	text := `{"row":0,"col":1,"label":"{"}, // first key
{"row":0,"col":2}`

	for _, s := range scan.Extract(text) {
		fmt.Println(s.Start, s.End, s.Text)
	}
	// Output:
	// 0 28 {"row":0,"col":1,"label":"{"}
	// 44 60 {"row":0,"col":2}
}

func ExampleScan() {
	r := scan.Scan(`{"a":1} {"b":`)
	fmt.Println(len(r.Spans), r.Truncated())
	// Output: 1 true
}
