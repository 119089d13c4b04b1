// Package tabular implements table-backed benchmark families: recorded
// training runs stored as a space file plus a CSV table, queried by
// exact (configuration, fidelity) lookup.
package tabular

import (
	"fmt"
	"maps"
	"math/rand"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spboyer/mfbench"
	"github.com/spboyer/mfbench/internal/dataset"
	"github.com/spboyer/mfbench/space"
)

// File names every benchmark directory carries. The table may be
// zstd-compressed as table.csv.zst, which takes precedence.
const (
	SpaceFileName = "space.yaml"
	TableFileName = "table.csv"
)

// Option adjusts benchmark construction.
type Option func(*options)

type options struct {
	seed int64
}

// WithSeed seeds the sampling stream.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// Benchmark serves recorded observations from a table. Queries are
// exact lookups: a (configuration, fidelity) pair the table does not
// record returns ErrNotFound rather than an interpolated value.
type Benchmark struct {
	*mfbench.Base

	dir  string
	file *space.File

	index   map[string]map[mfbench.Fidelity]mfbench.Result
	configs []mfbench.Config // distinct, in table order
}

// New describes the benchmark in dir without loading its table. The
// space file is read eagerly so the space, fidelity axis, and metrics
// are known up front; the table itself loads on first query or an
// explicit Load.
func New(name, dir string, opts ...Option) (*Benchmark, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	f, err := space.LoadFile(filepath.Join(dir, SpaceFileName))
	if err != nil {
		return nil, fmt.Errorf("benchmark %q: %w", name, err)
	}
	if f.Name != name {
		return nil, fmt.Errorf("benchmark %q: space file in %s describes %q", name, dir, f.Name)
	}
	sp, err := f.Space()
	if err != nil {
		return nil, fmt.Errorf("benchmark %q: %w", name, err)
	}

	b := &Benchmark{dir: dir, file: f}
	base, err := mfbench.NewBase(mfbench.Definition{
		Name:         name,
		Space:        sp,
		FidelityName: f.Fidelity.Name,
		Range: mfbench.FidelityRange{
			Start: mfbench.Fidelity(f.Fidelity.Start),
			Stop:  mfbench.Fidelity(f.Fidelity.Stop),
			Step:  mfbench.Fidelity(f.Fidelity.Step),
			Int:   f.Fidelity.Int,
		},
		Metrics: f.MetricNames(),
		Seed:    o.seed,
		Exact:   true,
		Load:    b.load,
		Query:   b.query,
		Sample:  b.sample,
	})
	if err != nil {
		return nil, err
	}
	b.Base = base
	return b, nil
}

// Dir returns the benchmark directory.
func (b *Benchmark) Dir() string { return b.dir }

// load reads the table and indexes every row by configuration key and
// fidelity.
func (b *Benchmark) load() error {
	path, err := tablePath(b.dir)
	if err != nil {
		return fmt.Errorf("benchmark %q: %w", b.Name(), err)
	}
	tbl, err := dataset.Load(path)
	if err != nil {
		return fmt.Errorf("benchmark %q: %w", b.Name(), err)
	}
	if err := b.checkColumns(tbl); err != nil {
		return fmt.Errorf("benchmark %q: %s: %w", b.Name(), path, err)
	}

	index := make(map[string]map[mfbench.Fidelity]mfbench.Result)
	for i, row := range tbl.Rows {
		r, err := b.rowResult(row)
		if err != nil {
			return fmt.Errorf("benchmark %q: %s: row %d: %w", b.Name(), path, i+2, err)
		}
		key := r.Config.Key()
		byFid, ok := index[key]
		if !ok {
			byFid = make(map[mfbench.Fidelity]mfbench.Result)
			index[key] = byFid
			b.configs = append(b.configs, r.Config)
		}
		if _, dup := byFid[r.Fidelity]; dup {
			return fmt.Errorf("benchmark %q: %s: row %d: duplicate observation for %s at %s %s",
				b.Name(), path, i+2, r.Config, b.FidelityName(), r.Fidelity)
		}
		byFid[r.Fidelity] = r
	}
	b.index = index
	return nil
}

// checkColumns verifies the table carries the fidelity column, every
// space parameter, and every declared metric.
func (b *Benchmark) checkColumns(tbl *dataset.Table) error {
	var missing []string
	if !tbl.HasColumn(b.file.Fidelity.Name) {
		missing = append(missing, b.file.Fidelity.Name)
	}
	for _, name := range b.Space().Names() {
		if !tbl.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	for _, name := range b.Metrics() {
		if !tbl.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("table is missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// rowResult converts one table row into a Result.
func (b *Benchmark) rowResult(row dataset.Row) (mfbench.Result, error) {
	values := make(map[string]space.Value, b.Space().Len())
	for _, p := range b.Space().Parameters() {
		v, err := parameterValue(p, row[p.Name])
		if err != nil {
			return mfbench.Result{}, err
		}
		if err := p.Check(v); err != nil {
			return mfbench.Result{}, err
		}
		values[p.Name] = v
	}

	fid, err := rowFidelity(b.file.Fidelity, row)
	if err != nil {
		return mfbench.Result{}, err
	}

	metrics := make(map[string]float64, len(b.file.Metrics))
	for _, m := range b.file.Metrics {
		f, err := row.Float(m.Name)
		if err != nil {
			return mfbench.Result{}, err
		}
		metrics[m.Name] = f
	}

	return mfbench.Result{
		Config:   mfbench.NewConfig(values),
		Fidelity: fid,
		Metrics:  metrics,
	}, nil
}

// parameterValue parses a table cell according to its parameter's type.
func parameterValue(p space.Parameter, cell string) (space.Value, error) {
	cell = strings.TrimSpace(cell)
	switch p.Type {
	case space.TypeInt:
		n, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return space.Value{}, fmt.Errorf("column %q: parsing %q as int: %w", p.Name, cell, err)
		}
		return space.Int(n), nil
	case space.TypeFloat:
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return space.Value{}, fmt.Errorf("column %q: parsing %q as float: %w", p.Name, cell, err)
		}
		return space.Float(f), nil
	case space.TypeCategorical:
		return matchValue(p.Name, cell, p.Choices)
	case space.TypeConstant:
		return matchValue(p.Name, cell, []space.Value{*p.Value})
	default:
		return space.Value{}, fmt.Errorf("column %q: unsupported parameter type %q", p.Name, p.Type)
	}
}

// matchValue resolves a raw cell against declared values, so numeric
// choices match numeric cells and string choices match verbatim.
func matchValue(column, cell string, candidates []space.Value) (space.Value, error) {
	var num *space.Value
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		v := space.Float(f)
		num = &v
	}
	for _, c := range candidates {
		if c.Kind() == space.KindString {
			if s, _ := c.Text(); s == cell {
				return c, nil
			}
			continue
		}
		if num != nil && c.Equal(*num) {
			return c, nil
		}
	}
	return space.Value{}, fmt.Errorf("column %q: value %q is not among the declared choices", column, cell)
}

func rowFidelity(fs space.FidelitySpec, row dataset.Row) (mfbench.Fidelity, error) {
	f, err := row.Float(fs.Name)
	if err != nil {
		return 0, err
	}
	if fs.Int && f != float64(int64(f)) {
		return 0, fmt.Errorf("column %q: fidelity %v is not an integer", fs.Name, f)
	}
	return mfbench.Fidelity(f), nil
}

// query looks up one recorded observation. Both misses — unknown
// configuration, and known configuration at an unrecorded fidelity —
// return ErrNotFound.
func (b *Benchmark) query(cfg mfbench.Config, at mfbench.Fidelity) (mfbench.Result, error) {
	byFid, ok := b.index[cfg.Key()]
	if !ok {
		return mfbench.Result{}, fmt.Errorf("benchmark %q records no rows for %s: %w",
			b.Name(), cfg, mfbench.ErrNotFound)
	}
	r, ok := byFid[at]
	if !ok {
		return mfbench.Result{}, fmt.Errorf("benchmark %q records no row for %s at %s %s: %w",
			b.Name(), cfg, b.FidelityName(), at, mfbench.ErrNotFound)
	}
	r.Metrics = maps.Clone(r.Metrics)
	return r, nil
}

// sample draws n distinct recorded configurations, matching how the
// recorded-run families sample rows rather than the continuous space.
func (b *Benchmark) sample(rng *rand.Rand, n int) ([]mfbench.Config, error) {
	if n > len(b.configs) {
		return nil, fmt.Errorf("benchmark %q records %d distinct configurations, cannot sample %d",
			b.Name(), len(b.configs), n)
	}
	out := make([]mfbench.Config, 0, n)
	for _, i := range rng.Perm(len(b.configs))[:n] {
		out = append(out, b.configs[i])
	}
	return out, nil
}

// tablePath returns the table file inside dir, preferring the
// zstd-compressed variant.
func tablePath(dir string) (string, error) {
	zst := filepath.Join(dir, TableFileName+".zst")
	if fileExists(zst) {
		return zst, nil
	}
	plain := filepath.Join(dir, TableFileName)
	if fileExists(plain) {
		return plain, nil
	}
	return "", fmt.Errorf("no %s or %s.zst in %s", TableFileName, TableFileName, dir)
}
