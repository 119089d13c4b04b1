package surrogate

import (
	"path/filepath"

	"github.com/spboyer/mfbench"
)

// The jahs entry resolves one surrogate directory per task, named
// jahs_<task> under the data dir.
func init() {
	mfbench.Register(mfbench.Entry{
		Name:        "jahs",
		Tasks:       []string{"cifar10", "colorectal_histology", "fashion_mnist"},
		Description: "JAHS-Bench-201 style surrogate predictor over joint architecture and hyperparameter choices",
		NeedsData:   true,
		New: func(o mfbench.Options) (mfbench.Benchmark, error) {
			name := "jahs_" + o.Task
			return New(name, filepath.Join(o.DataDir, name), WithSeed(o.Seed))
		},
	})
}
