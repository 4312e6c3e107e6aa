// Command bench runs a synthetic API workload against the response cache and
// exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rrodrigogon-byte/medfocus-app-001-sub004/cache"
	"github.com/rrodrigogon-byte/medfocus-app-001-sub004/internal/config"
	"github.com/rrodrigogon-byte/medfocus-app-001-sub004/internal/logging"
	pmet "github.com/rrodrigogon-byte/medfocus-app-001-sub004/metrics/prom"
)

var namespaces = []string{"pubmed:search", "pubmed:article", "openfda:drugs", "cid10"}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "bench:", err)
		os.Exit(1)
	}
}

func run() error {
	// ---- Flags ----
	var (
		cfgPath   = flag.String("config", "", "YAML config file; empty = built-in defaults")
		cacheName = flag.String("cache", "api", "cache section to benchmark")
		policy    = flag.String("policy", "", "override the eviction policy: approx | lru | 2q")

		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		readPct  = flag.Int("reads", 90, "read-through percentage [0..100]; the rest are invalidations")
		latency  = flag.Duration("latency", 2*time.Millisecond, "simulated upstream latency")

		keys  = flag.Int("keys", 10_000, "keyspace size per namespace")
		zipfS = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed  = flag.Int64("seed", time.Now().UnixNano(), "random seed")

		pprofAddr = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
	)
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			return err
		}
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cc, ok := cfg.Cache(*cacheName)
	if !ok {
		return fmt.Errorf("no cache named %q in config", *cacheName)
	}
	if *policy != "" {
		cc.Policy = *policy
	}

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			logger.Info("Serving pprof", zap.String("addr", *pprofAddr))
			logger.Warn("pprof server stopped", zap.Error(http.ListenAndServe(*pprofAddr, nil)))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	metrics := pmet.New(nil, "medfocus", "cache", prometheus.Labels{"cache": cc.Name})
	if cfg.Metrics.Addr != "" {
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			logger.Info("Serving metrics", zap.String("addr", cfg.Metrics.Addr))
			logger.Warn("Metrics server stopped", zap.Error(http.ListenAndServe(cfg.Metrics.Addr, nil)))
		}()
	}

	// ---- Build cache ----
	opt, err := config.CacheOptions[string](cc, logger, metrics)
	if err != nil {
		return err
	}
	c, err := cache.New(opt)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	// ---- Snapshot flags for goroutines ----
	readPctVal := *readPct
	keysMax := uint64(*keys - 1)
	seedBase := *seed
	upstreamDelay := *latency
	workersN := *workers
	if workersN <= 0 {
		workersN = 1
	}

	// ---- Load generation ----
	var total, upstream, invalidations atomic.Uint64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workersN; w++ {
		id := w
		g.Go(func() error {
			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			localR := rand.New(rand.NewSource(seedBase + int64(id)*9973))
			localZipf := rand.NewZipf(localR, *zipfS, *zipfV, keysMax)

			for ctx.Err() == nil {
				total.Add(1)
				ns := namespaces[localR.Intn(len(namespaces))]
				key := cache.Key(ns, strconv.FormatUint(localZipf.Uint64(), 10))

				if int(localR.Int31n(100)) >= readPctVal {
					c.Invalidate(key)
					invalidations.Add(1)
					continue
				}
				_, err := c.GetOrFetch(ctx, key, func(ctx context.Context) (string, error) {
					upstream.Add(1)
					select {
					case <-time.After(upstreamDelay):
						return "body:" + key, nil
					case <-ctx.Done():
						return "", ctx.Err()
					}
				})
				if err != nil && ctx.Err() == nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	// ---- Report ----
	snap := c.Metrics()
	ops := total.Load()
	fmt.Printf("cache=%s policy=%s max=%d workers=%d keys=%d dur=%v seed=%d\n",
		cc.Name, cc.Policy, opt.MaxEntries, workersN, *keys, elapsed, seedBase)
	fmt.Printf("ops=%d (%.0f ops/s)  upstream=%d  invalidations=%d\n",
		ops, float64(ops)/elapsed.Seconds(), upstream.Load(), invalidations.Load())
	fmt.Printf("hits=%d  misses=%d  sets=%d  evictions=%d  expirations=%d  hit-rate=%d%%\n",
		snap.Hits, snap.Misses, snap.Sets, snap.Evictions, snap.Expirations, snap.HitRate)
	fmt.Printf("entries=%d\n", snap.TotalEntries)
	return nil
}
