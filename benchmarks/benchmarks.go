// Package benchmarks registers every built-in benchmark family.
//
// Import it for side effects to activate the full registry:
//
//	import _ "github.com/spboyer/mfbench/benchmarks"
//
// Programs that only need one family can import that family's package
// directly instead.
package benchmarks

import (
	_ "github.com/spboyer/mfbench/hartmann"
	_ "github.com/spboyer/mfbench/surrogate"
	_ "github.com/spboyer/mfbench/tabular"
)
