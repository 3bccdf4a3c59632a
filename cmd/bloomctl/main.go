package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-redis/redis/v9"
	"github.com/prometheus/client_golang/prometheus"

	bloom "github.com/HoangViet144/probebloom"
)

type arrayFlags []string

func (a *arrayFlags) String() string {
	return fmt.Sprintf("%v", *a)
}

func (a *arrayFlags) Set(value string) error {
	*a = append(*a, value)
	return nil
}

// readKeys returns the non-empty lines of path, or of stdin if path is "-".
func readKeys(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var keys []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			keys = append(keys, line)
		}
	}
	return keys, scanner.Err()
}

// logStoreMetrics writes every non-zero store counter to the log.
func logStoreMetrics(reg *prometheus.Registry, logger log.Logger) {
	families, err := reg.Gather()
	if err != nil {
		level.Warn(logger).Log("msg", "failed to gather metrics", "err", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			kv := []interface{}{"msg", "store metric", "name", mf.GetName()}
			for _, l := range m.GetLabel() {
				kv = append(kv, l.GetName(), l.GetValue())
			}
			kv = append(kv, "value", m.GetCounter().GetValue())
			level.Debug(logger).Log(kv...)
		}
	}
}

func levelOption(name string) level.Option {
	switch name {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}

func main() {
	var (
		n         uint
		p         float64
		genName   string
		compress  bool
		addFile   string
		loadFile  string
		outFile   string
		queries   arrayFlags
		redisAddr string
		redisKey  string
		timeout   time.Duration
		logLevel  string
		storeCfg  bloom.StoreConfig
	)

	flag.UintVar(&n, "n", 1000, "Expected number of keys")
	flag.Float64Var(&p, "p", 0.001, "Target false positive rate, between 0 and 1 exclusive")
	flag.StringVar(&genName, "gen", bloom.MurmurName, fmt.Sprintf("Probe generator: %s", strings.Join(bloom.ProbeGeneratorNames(), ", ")))
	flag.BoolVar(&compress, "compress", true, "Compress the bit array of the written envelope with zlib")
	flag.StringVar(&addFile, "add", "", "File of keys to add, one per line (- reads stdin)")
	flag.StringVar(&loadFile, "load", "", "Start from the filter envelope in this file instead of an empty filter")
	flag.StringVar(&outFile, "out", "", "Write the resulting filter envelope to this file (- writes stdout)")
	flag.Var(&queries, "query", "Key to test for membership (repeatable)")
	flag.StringVar(&redisAddr, "redis-addr", "", "Redis address; with -redis-key the filter is loaded from and merged into Redis")
	flag.StringVar(&redisKey, "redis-key", "", "Key of the filter in Redis")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Timeout for Redis operations")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	storeCfg.RegisterFlags("store.", flag.CommandLine)

	flag.Parse()

	if (redisAddr == "") != (redisKey == "") {
		fmt.Fprintf(os.Stderr, "Error: -redis-addr and -redis-key must be set together\n")
		flag.Usage()
		os.Exit(1)
	}

	// Setup logger
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = level.NewFilter(logger, levelOption(logLevel))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	logger = log.With(logger, "caller", log.DefaultCaller)

	gen, err := bloom.LookupProbeGenerator(genName)
	if err != nil {
		level.Error(logger).Log("msg", "invalid probe generator", "gen", genName, "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var (
		store *bloom.RedisStore
		reg   = prometheus.NewRegistry()
	)
	if redisAddr != "" {
		redisClient := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{redisAddr}})
		defer redisClient.Close()
		store, err = bloom.NewRedisStore(redisClient, storeCfg, bloom.NewMetrics(reg), logger)
		if err != nil {
			level.Error(logger).Log("msg", "failed to create store", "err", err)
			os.Exit(1)
		}
		defer logStoreMetrics(reg, logger)
	}

	var f bloom.BloomFilter
	switch {
	case loadFile != "":
		data, err := os.ReadFile(loadFile)
		if err != nil {
			level.Error(logger).Log("msg", "failed to read filter", "file", loadFile, "err", err)
			os.Exit(1)
		}
		f, err = bloom.Decode(data)
		if err != nil {
			level.Error(logger).Log("msg", "failed to decode filter", "file", loadFile, "err", err)
			os.Exit(1)
		}
	case store != nil:
		f, err = store.Load(ctx, redisKey)
		if errors.Is(err, bloom.ErrNotFound) {
			level.Info(logger).Log("msg", "no stored filter, starting empty", "key", redisKey)
			f, err = bloom.NewWithEstimates(n, p, gen)
		}
		if err != nil {
			level.Error(logger).Log("msg", "failed to load filter", "key", redisKey, "err", err)
			os.Exit(1)
		}
	default:
		f, err = bloom.NewWithEstimates(n, p, gen)
		if err != nil {
			level.Error(logger).Log("msg", "failed to create filter", "err", err)
			os.Exit(1)
		}
	}

	level.Info(logger).Log(
		"msg", "filter ready",
		"n", f.N(),
		"p", f.P(),
		"m", f.Cap(),
		"k", f.K(),
		"gen", f.Generator().Name(),
		"bits_set", f.BitSet().Count(),
	)

	if addFile != "" {
		keys, err := readKeys(addFile)
		if err != nil {
			level.Error(logger).Log("msg", "failed to read keys", "file", addFile, "err", err)
			os.Exit(1)
		}
		for _, key := range keys {
			f.AddString(key)
		}
		level.Info(logger).Log("msg", "added keys", "count", len(keys), "approximated_size", f.ApproximatedSize())

		if store != nil {
			if err := store.Merge(ctx, redisKey, f); err != nil {
				level.Error(logger).Log("msg", "failed to merge filter", "key", redisKey, "err", err)
				os.Exit(1)
			}
		}
	}

	for _, q := range queries {
		fmt.Printf("%s\t%v\n", q, f.TestString(q))
	}

	if outFile != "" {
		data, err := bloom.Encode(f, compress)
		if err != nil {
			level.Error(logger).Log("msg", "failed to encode filter", "err", err)
			os.Exit(1)
		}
		if outFile == "-" {
			_, err = os.Stdout.Write(append(data, '\n'))
		} else {
			err = os.WriteFile(outFile, data, 0o644)
		}
		if err != nil {
			level.Error(logger).Log("msg", "failed to write filter", "file", outFile, "err", err)
			os.Exit(1)
		}
	}
}
