package main

import (
	"context"
	"fmt"
	randv2 "math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	antsv2 "github.com/panjf2000/ants/v2"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/observability"
	"github.com/benz9527/xtree/xlog"
)

type demoBanner struct{}

func (demoBanner) JSON() string {
	return `{"app":"xtree","component":"prbt-demo"}`
}

func (demoBanner) PlainText() string {
	return "xtree :: persistent red-black tree demo"
}

// treeVersion is one published snapshot. The readers load it through
// an atomic pointer and keep querying it while the writer moves on.
type treeVersion struct {
	set tree.RBSet[uint64]
	ver int
}

func main() {
	var (
		total    = pflag.Int("total", 4096, "amount of the elements to insert")
		readers  = pflag.Int("readers", 4, "amount of the snapshot reader goroutines")
		rounds   = pflag.Int("rounds", 64, "bound query rounds for each reader")
		desc     = pflag.Bool("desc", false, "sort the elements in descending order")
		plain    = pflag.Bool("plain", false, "print the logs in plain text")
		verbose  = pflag.Bool("verbose", false, "print the reader debug logs")
		metrics  = pflag.Bool("metrics", false, "dump the otel metrics to stdout periodically")
		dumpSize = pflag.Int64("dump", 32, "amount of the elements to dump with colors")
	)
	pflag.Parse()

	lvl := xlog.LogLevelInfo
	if *verbose {
		lvl = xlog.LogLevelDebug
	}
	loggerOpts := []xlog.XLoggerOption{
		xlog.WithXLoggerLevel(lvl),
		xlog.WithXLoggerEncoder(xlog.JSON),
		xlog.WithXLoggerTimeEncoder(zapcore.ISO8601TimeEncoder),
		xlog.WithXLoggerLevelEncoder(zapcore.CapitalLevelEncoder),
	}
	if *plain {
		loggerOpts[1] = xlog.WithXLoggerEncoder(xlog.PlainText)
	}
	logger := xlog.NewXLogger(loggerOpts...)
	defer func() { _ = logger.Sync() }()
	logger.Banner(demoBanner{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *metrics {
		shutdown := lo.Must(observability.NewConsoleMetricsExporter(5*time.Second, 3*time.Second))
		observability.InitAppStats(ctx, "prbt-demo")
		defer func() { _ = shutdown(context.Background()) }()
	}

	opts := []tree.RBSetOpt[uint64]{tree.WithRBSetStats[uint64]("demo")}
	if *desc {
		opts = append(opts, tree.WithRBSetDesc[uint64]())
	}
	set := tree.NewRBSet[uint64](opts...)

	cur := &atomic.Pointer[treeVersion]{}
	cur.Store(&treeVersion{set: set})

	pool := lo.Must(antsv2.NewPool(*readers, antsv2.WithLogger(xlog.NewAntsXLogger(logger))))
	defer pool.Release()

	var wg sync.WaitGroup
	wg.Add(*readers)
	for r := 0; r < *readers; r++ {
		r := r
		err := pool.Submit(func() {
			defer wg.Done()
			for i := 0; i < *rounds; i++ {
				v := cur.Load()
				if v.set.IsEmpty() {
					continue
				}
				probe := randv2.Uint64N(uint64(*total))
				if elem, ok := v.set.Ceiling(probe); ok {
					logger.Debug("ceiling hit", zap.Int("reader", r), zap.Int("version", v.ver),
						zap.Uint64("probe", probe), zap.Uint64("elem", elem))
				}
				if elem, ok := v.set.Floor(probe); ok {
					logger.Debug("floor hit", zap.Int("reader", r), zap.Int("version", v.ver),
						zap.Uint64("probe", probe), zap.Uint64("elem", elem))
				}
				count := int64(0)
				v.set.Foreach(func(idx int64, color tree.RBColor, elem uint64) bool {
					count++
					return true
				})
				if count != v.set.Len() {
					logger.Error(nil, "torn snapshot", zap.Int("reader", r), zap.Int("version", v.ver),
						zap.Int64("count", count), zap.Int64("len", v.set.Len()))
				}
			}
			logger.Info("reader done", zap.Int("reader", r))
		})
		if err != nil {
			wg.Done()
			logger.Error(err, "submit reader")
		}
	}

	perm := randv2.Perm(*total)
	step := *total / 8
	if step == 0 {
		step = 1
	}
	ver := 0
	for i, n := range perm {
		set = set.Insert(uint64(n))
		if (i+1)%step == 0 || i == len(perm)-1 {
			ver++
			cur.Store(&treeVersion{set: set, ver: ver})
			logger.Info("published version", zap.Int("version", ver), zap.Int64("len", set.Len()))
		}
	}

	// The removals build yet another version. All the published
	// versions stay valid for the readers.
	removed := 0
	for n := 0; n < *total; n += 3 {
		set = set.Remove(uint64(n))
		removed++
	}
	ver++
	cur.Store(&treeVersion{set: set, ver: ver})
	logger.Info("published version after removals", zap.Int("version", ver),
		zap.Int("removed", removed), zap.Int64("len", set.Len()))

	wg.Wait()

	if mn, ok := set.Min(); ok {
		mx, _ := set.Max()
		logger.Info("latest version bounds", zap.Uint64("min", mn), zap.Uint64("max", mx))
	}
	sum := tree.FoldLeft[uint64, uint64](set.Root(), 0, func(acc uint64, elem uint64) uint64 {
		return acc + elem
	})
	stream := set.Stream()
	first, _ := stream.Peek()
	logger.Info("latest version folded", zap.Uint64("sum", sum),
		zap.Uint64("first", first), zap.Int64("rest", stream.Rest()))

	hist := tree.NewRBMap[string, uint64]()
	set.Foreach(func(idx int64, c tree.RBColor, elem uint64) bool {
		key := fmt.Sprintf("digit-%d", elem%10)
		old, _ := hist.Get(key)
		hist = hist.Put(key, old+1)
		return true
	})
	hist.Foreach(func(idx int64, c tree.RBColor, key string, val uint64) bool {
		logger.Info("histogram bucket", zap.String("bucket", key), zap.Uint64("count", val))
		return true
	})
	if entry, ok := hist.CeilingEntry("digit-5"); ok {
		logger.Info("histogram ceiling bucket", zap.String("bucket", entry.Key), zap.Uint64("count", entry.Val))
	}

	redSprint := color.New(color.FgRed).SprintFunc()
	fmt.Printf("in-order dump of the first %d elements, the red nodes are colored:\n", *dumpSize)
	set.Foreach(func(idx int64, c tree.RBColor, elem uint64) bool {
		if idx >= *dumpSize {
			return false
		}
		if c == tree.Red {
			fmt.Print(redSprint(fmt.Sprintf("%d ", elem)))
		} else {
			fmt.Printf("%d ", elem)
		}
		return true
	})
	fmt.Println()

	set.Release()
	hist.Release()
	logger.Info("demo done")
}
