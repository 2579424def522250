// Command rewrite loads an AIGER file, runs the combinational rewriter,
// and writes the optimized result back out.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"aigrewrite/internal/aiger"
	"aigrewrite/internal/engine"
	"aigrewrite/internal/history"
	"aigrewrite/internal/llvmdump"
	"aigrewrite/internal/maig"
	"aigrewrite/internal/progressws"
	"aigrewrite/internal/report"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("rewrite", flag.ContinueOnError)
	nIters := fs.Int("I", 1000, "number of iterations")
	nExpands := fs.Int("E", 100, "max literals added per iteration's Expand stage")
	nGrowth := fs.Int("G", 3, "per-node fanin capacity headroom reserved by Split")
	nDivs := fs.Int("D", 4, "max Share extractions per iteration")
	nFaninMax := fs.Int("F", 4, "max fanin width a Split chain link may reach")
	seed := fs.Int64("S", 1, "PRNG seed")
	timeoutSec := fs.Int("T", 0, "wall-clock budget in seconds, 0 disables it")
	verbose := fs.Bool("V", false, "print a line on every new best")
	format := fs.String("format", "console", "progress format: console, json, or csv")
	llvmOut := fs.String("llvm-out", "", "also dump the result as LLVM IR to this path")
	wsAddr := fs.String("ws-addr", "", "serve live progress over websocket at this address (e.g. :8089)")
	historyDriver := fs.String("history-driver", "", "record this run to a SQL history store: sqlite, postgres, mysql, or sqlserver")
	historyDSN := fs.String("history-dsn", "", "DSN for -history-driver")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: rewrite [-I -E -G -D -F -S -T -V] <input.aig>")
		return 1
	}
	inputPath := fs.Arg(0)
	outputPath := deriveOutputPath(inputPath)

	in, err := os.Open(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rewrite: %v\n", err)
		return 1
	}
	defer in.Close()

	graph, err := aiger.Read(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rewrite: %v\n", err)
		return 1
	}

	opts := engine.Options{
		NIters:    *nIters,
		NExpands:  *nExpands,
		NGrowth:   *nGrowth,
		NDivs:     *nDivs,
		NFaninMax: *nFaninMax,
		Seed:      *seed,
		Timeout:   time.Duration(*timeoutSec) * time.Second,
	}

	emitter := newEmitter(*format, *verbose)
	progress := emitter.Progress

	var wsServer *progressws.Server
	if *wsAddr != "" {
		wsServer = progressws.NewServer()
		go func() {
			if err := http.ListenAndServe(*wsAddr, wsServer); err != nil {
				fmt.Fprintf(os.Stderr, "rewrite: websocket server: %v\n", err)
			}
		}()
		prev := progress
		progress = func(s engine.Stats) {
			prev(s)
			wsServer.Emit(s)
		}
	}

	startedAt := time.Now()
	best, stats, err := engine.Run(graph, opts, progress)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rewrite: %v\n", err)
		return 1
	}

	out, err := os.Create(outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rewrite: %v\n", err)
		return 1
	}
	defer out.Close()
	if err := aiger.Write(out, best); err != nil {
		fmt.Fprintf(os.Stderr, "rewrite: %v\n", err)
		return 1
	}

	if *llvmOut != "" {
		if err := writeLLVMDump(*llvmOut, best); err != nil {
			fmt.Fprintf(os.Stderr, "rewrite: %v\n", err)
			return 1
		}
	}

	r := report.NewRun(startedAt, inputPath, outputPath, *seed)
	r.Iterations = stats.Iteration + 1
	r.InputAndCount = graph.AndCount()
	r.BestAndCount = best.AndCount()
	r.TimedOut = stats.TimedOut
	r.Elapsed = time.Since(startedAt)
	emitter.Final(r)

	if *historyDriver != "" {
		if err := recordHistory(*historyDriver, *historyDSN, r); err != nil {
			fmt.Fprintf(os.Stderr, "rewrite: %v\n", err)
			return 1
		}
	}

	return 0
}

func writeLLVMDump(path string, best *maig.MAIG) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	mod := llvmdump.Dump(best)
	_, err = fmt.Fprint(f, mod.String())
	return err
}

func recordHistory(driver, dsn string, r report.Run) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := history.Open(ctx, driver, dsn)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(ctx, r)
}

func newEmitter(format string, verbose bool) report.Emitter {
	switch format {
	case "json":
		return report.NewJSONEmitter(os.Stdout)
	case "csv":
		return report.NewCSVEmitter(os.Stdout)
	default:
		if !verbose {
			return silentProgress{report.NewConsoleEmitter(os.Stdout, os.Stdout.Fd())}
		}
		return report.NewConsoleEmitter(os.Stdout, os.Stdout.Fd())
	}
}

// silentProgress suppresses per-iteration lines while still printing
// the final summary, for a non-verbose console run.
type silentProgress struct{ report.Emitter }

func (silentProgress) Progress(engine.Stats) {}

func deriveOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(inputPath, ext)
	return base + "_out" + ext
}
