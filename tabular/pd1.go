package tabular

import (
	"path/filepath"

	"github.com/spboyer/mfbench"
)

// The PD1 tasks: recorded transformer training runs, one directory per
// task under the data dir, fidelity epoch, metrics valid_error_rate
// and train_cost.
func init() {
	entries := []struct {
		name, desc string
	}{
		{"lm1b_transformer_2048", "PD1 LM1B transformer (batch 2048), recorded training runs"},
		{"translatewmt_xformer_64", "PD1 WMT15 German-English transformer (batch 64), recorded training runs"},
		{"uniref50_transformer_128", "PD1 UniRef50 transformer (batch 128), recorded training runs"},
	}
	for _, e := range entries {
		mfbench.Register(mfbench.Entry{
			Name:        e.name,
			Description: e.desc,
			NeedsData:   true,
			New: func(o mfbench.Options) (mfbench.Benchmark, error) {
				return New(e.name, filepath.Join(o.DataDir, e.name), WithSeed(o.Seed))
			},
		})
	}
}
