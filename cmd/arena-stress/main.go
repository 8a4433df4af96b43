package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/kamstrup/intmap"
	flag "github.com/spf13/pflag"

	"github.com/plus3/arena/arena"
)

const opsPerFrame = 1024

type Node struct {
	Parent arena.Idx[Node]
	Depth  int
}

// Attrs is the side data attached to a subset of nodes.
type Attrs struct {
	Hits   int
	Weight float64
}

type config struct {
	duration       time.Duration
	entities       int
	sparsity       float64
	seed           int64
	gcPauseMetrics bool
	logLevel       string
}

func main() {
	cfg := config{}
	flag.DurationVar(&cfg.duration, "duration", 10*time.Second, "The total duration the test should run for.")
	flag.IntVar(&cfg.entities, "entities", 100000, "The number of nodes to allocate in the arena.")
	flag.Float64Var(&cfg.sparsity, "sparsity", 0.25, "Fraction of nodes that get side data.")
	flag.Int64Var(&cfg.seed, "seed", time.Now().UnixNano(), "Random seed.")
	flag.BoolVar(&cfg.gcPauseMetrics, "gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.StringVar(&cfg.logLevel, "log-level", "info", "Log level (debug, info, warn, error).")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid --log-level: %v\n", err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(cfg, logger); err != nil {
		logger.Error("stress test failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config, logger *slog.Logger) error {
	if cfg.entities <= 0 {
		return fmt.Errorf("--entities must be positive, got %d", cfg.entities)
	}
	if cfg.sparsity < 0 || cfg.sparsity > 1 {
		return fmt.Errorf("--sparsity must be within [0, 1], got %v", cfg.sparsity)
	}

	rng := rand.New(rand.NewSource(cfg.seed))
	logger.Info("starting arena stress test", "seed", cfg.seed, "entities", cfg.entities, "sparsity", cfg.sparsity)

	// 1. Populate the arena and both side tables
	h := newHarness(cfg.entities)
	h.populate(rng, cfg.entities, cfg.sparsity)
	logger.Info("population complete", "nodes", h.nodes.Len(), "attrs", h.attrs.Len(), "slots", h.attrs.SlotLen())

	report := &Report{
		Duration:       cfg.duration,
		Entities:       cfg.entities,
		Sparsity:       cfg.sparsity,
		Seed:           cfg.seed,
		GCPauseMetrics: cfg.gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	// 2. Run frames until the deadline
	logger.Info("running simulation", "duration", cfg.duration)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			updateStart := time.Now()
			if err := h.frame(rng); err != nil {
				return fmt.Errorf("frame %d: %w", totalUpdates, err)
			}
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)
	logger.Info("simulation finished", "updates", totalUpdates)

	// 3. Cross check both side tables
	if err := h.verify(); err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	report.Live = h.live.GetCardinality()
	report.Slots = h.attrs.SlotLen()
	logger.Debug("side tables agree", "live", report.Live)

	// 4. Generate report to stdout
	if err := report.Generate(os.Stdout); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	logger.Info("stress test complete")
	return nil
}

// harness drives the same operations against arena.Map and an intmap
// baseline, tracking the expected set of live indices in a bitmap.
type harness struct {
	nodes    *arena.Arena[Node]
	attrs    *arena.Map[Node, Attrs]
	baseline *intmap.Map[arena.RawIdx, Attrs]
	live     *roaring.Bitmap
}

func newHarness(entities int) *harness {
	return &harness{
		nodes:    arena.NewArenaWithCapacity[Node](entities),
		attrs:    arena.WithCapacity[Node, Attrs](entities),
		baseline: intmap.New[arena.RawIdx, Attrs](entities),
		live:     roaring.New(),
	}
}

func (h *harness) populate(rng *rand.Rand, entities int, sparsity float64) {
	root := h.nodes.Alloc(Node{})
	for i := 1; i < entities; i++ {
		parent := arena.FromRaw[Node](arena.RawIdx(rng.Intn(i)))
		idx := h.nodes.Alloc(Node{Parent: parent, Depth: h.nodes.At(parent).Depth + 1})
		if rng.Float64() < sparsity {
			h.put(idx, Attrs{Weight: rng.Float64()})
		}
	}
	h.put(root, Attrs{Weight: 1})
}

func (h *harness) put(idx arena.Idx[Node], attrs Attrs) {
	h.attrs.Insert(idx, attrs)
	h.baseline.Put(idx.IntoRaw(), attrs)
	h.live.Add(uint32(idx.IntoRaw()))
}

func (h *harness) frame(rng *rand.Rand) error {
	n := h.nodes.Len()
	for op := 0; op < opsPerFrame; op++ {
		idx := arena.FromRaw[Node](arena.RawIdx(rng.Intn(n)))
		raw := idx.IntoRaw()

		switch r := rng.Intn(100); {
		case r < 60:
			got, ok := h.attrs.Get(idx)
			want, wantOk := h.baseline.Get(raw)
			if ok != wantOk || got != want {
				return fmt.Errorf("get %s: got (%v, %v), want (%v, %v)", idx, got, ok, want, wantOk)
			}
		case r < 90:
			attrs := h.attrs.Entry(idx).
				AndModify(func(a *Attrs) { a.Hits++ }).
				OrInsertWith(func() Attrs { return Attrs{Hits: 1, Weight: weight(h.nodes.At(idx))} })
			h.baseline.Put(raw, *attrs)
			h.live.Add(uint32(raw))
		default:
			if occupied, ok := h.attrs.Entry(idx).Occupied(); ok {
				occupied.Remove()
				h.baseline.Del(raw)
				h.live.Remove(uint32(raw))
			}
		}
	}

	var total float64
	for attrs := range h.attrs.Values() {
		total += attrs.Weight
	}
	_ = total
	return nil
}

func weight(n *Node) float64 {
	return 1 / float64(n.Depth+1)
}

func (h *harness) verify() error {
	if !h.live.Equals(h.attrs.Indices()) {
		return fmt.Errorf("live set mismatch: %d tracked, %d in map", h.live.GetCardinality(), h.attrs.Len())
	}
	if h.attrs.Len() != h.baseline.Len() {
		return fmt.Errorf("length mismatch: map %d, baseline %d", h.attrs.Len(), h.baseline.Len())
	}
	for idx, attrs := range h.attrs.Iter() {
		want, ok := h.baseline.Get(idx.IntoRaw())
		if !ok || want != attrs {
			return fmt.Errorf("value mismatch at %s: map %v, baseline %v", idx, attrs, want)
		}
	}
	return nil
}
