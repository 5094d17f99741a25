package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tensorgate/engine-runtime/dtype"
	"github.com/tensorgate/engine-runtime/engine"
	"github.com/tensorgate/engine-runtime/memref"
	"github.com/tensorgate/engine-runtime/registry"
	"github.com/tensorgate/engine-runtime/runner"
)

func main() {
	var (
		engineFile  = flag.String("engine", "", "Path to serialized engine file")
		inShapes    = flag.String("in", "", "Input shapes, comma-separated (e.g. 1x3x224x224,8)")
		outRanks    = flag.String("out-ranks", "", "Output ranks, comma-separated (e.g. 3,1)")
		elemType    = flag.String("dtype", "f32", "Element type (f32, f16, bf16, i64, i32, i8, bool)")
		count       = flag.Int("n", 1, "Number of invocations")
		streams     = flag.Int("streams", 1, "Execution stream pool size")
		metricsAddr = flag.String("metrics", "", "Serve Prometheus metrics on this address (e.g. :9090)")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *engineFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: enginecall -engine <file> -in <shapes> -out-ranks <ranks> [-n count]")
		fmt.Fprintln(os.Stderr, "       enginecall -engine <file> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		log, err := zap.NewDevelopment()
		if err == nil {
			engine.SetLogger(log)
		}
	}

	if *interactive {
		if err := runInteractive(*engineFile, *streams); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*engineFile, *inShapes, *outRanks, *elemType, *count, *streams, *metricsAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(engineFile, inShapes, outRanks, elemType string, count, streams int, metricsAddr string) error {
	ctx := context.Background()

	data, err := os.ReadFile(engineFile)
	if err != nil {
		return fmt.Errorf("read engine: %w", err)
	}

	et, err := dtype.Parse(elemType)
	if err != nil {
		return err
	}

	shapes, err := parseShapes(inShapes)
	if err != nil {
		return fmt.Errorf("parse -in: %w", err)
	}
	ranks, err := parseRanks(outRanks)
	if err != nil {
		return fmt.Errorf("parse -out-ranks: %w", err)
	}

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				fmt.Fprintf(os.Stderr, "metrics server: %v\n", err)
			}
		}()
		fmt.Printf("Serving metrics on %s/metrics\n", metricsAddr)
	}

	ep := engine.NewWasmEntryPoints(ctx)
	defer ep.Close(ctx)

	reg, err := registry.New(ctx, registry.Options{
		EntryPoints: ep,
		EngineBlob:  data,
		Streams:     streams,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Engine: %s (%d bytes)\n", engineFile, len(data))
	fmt.Printf("Inputs: %d, outputs: %d, dtype %s, %d stream(s)\n\n",
		len(shapes), len(ranks), et, reg.Streams())

	sig := runner.Signature{}
	inputs := make([]memref.Table, len(shapes))
	for i, s := range shapes {
		sig.Inputs = append(sig.Inputs, runner.ArgSpec{Rank: len(s), Type: et})
		// Device pointers are engine-defined; the reference engine treats
		// them as guest memory offsets, so placeholders suffice here.
		inputs[i] = memref.Contig(0, s...)
	}
	for _, r := range ranks {
		sig.Outputs = append(sig.Outputs, runner.ArgSpec{Rank: r, Type: et})
	}

	r := runner.New(reg, sig)
	for n := 0; n < count; n++ {
		start := time.Now()
		outs, err := r.Invoke(ctx, inputs)
		if err != nil {
			return err
		}
		fmt.Printf("Invocation %d (%s):\n", n, time.Since(start).Round(time.Microsecond))
		for i, out := range outs {
			fmt.Printf("  out%d: shape %s  strides %s  ptr %#x  (%d elements)\n",
				i, formatDims(out.Sizes), formatDims(out.Strides), uint64(out.Data()), out.Elements())
		}
	}
	return nil
}

// parseShapes parses "1x3x224x224,8" into shape vectors. An empty string
// means no inputs; "scalar" denotes rank 0.
func parseShapes(s string) ([][]int64, error) {
	if s == "" {
		return nil, nil
	}
	var shapes [][]int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "scalar" {
			shapes = append(shapes, []int64{})
			continue
		}
		var shape []int64
		for _, dim := range strings.Split(part, "x") {
			v, err := strconv.ParseInt(strings.TrimSpace(dim), 10, 64)
			if err != nil || v < 0 {
				return nil, fmt.Errorf("bad dimension %q in %q", dim, part)
			}
			shape = append(shape, v)
		}
		shapes = append(shapes, shape)
	}
	return shapes, nil
}

func parseRanks(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var ranks []int
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || v < 0 {
			return nil, fmt.Errorf("bad rank %q", part)
		}
		ranks = append(ranks, v)
	}
	return ranks, nil
}

func formatDims(dims []int64) string {
	if len(dims) == 0 {
		return "[]"
	}
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = strconv.FormatInt(d, 10)
	}
	return "[" + strings.Join(parts, "x") + "]"
}
