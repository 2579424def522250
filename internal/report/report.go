// Package report formats engine progress and final-run summaries for
// the CLI and for the history store, the way the donor's reporting
// package renders a single struct through multiple encodings via
// struct tags.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"aigrewrite/internal/engine"
)

// Run is the final summary of one rewrite invocation: the input/output
// shapes and the engine stats at the last iteration.
type Run struct {
	ID            string    `json:"id" csv:"id"`
	StartedAt     time.Time `json:"started_at" csv:"started_at"`
	InputPath     string    `json:"input_path" csv:"input_path"`
	OutputPath    string    `json:"output_path" csv:"output_path"`
	Seed          int64     `json:"seed" csv:"seed"`
	Iterations    int       `json:"iterations" csv:"iterations"`
	InputAndCount int       `json:"input_and_count" csv:"input_and_count"`
	BestAndCount  int       `json:"best_and_count" csv:"best_and_count"`
	TimedOut      bool      `json:"timed_out" csv:"timed_out"`
	Elapsed       time.Duration `json:"elapsed_ns" csv:"elapsed_ns"`
}

// NewRun stamps a fresh Run ID, deferring the wall-clock timestamp to the
// caller since workflow code may not call time.Now() directly.
func NewRun(startedAt time.Time, inputPath, outputPath string, seed int64) Run {
	return Run{
		ID:         uuid.New().String(),
		StartedAt:  startedAt,
		InputPath:  inputPath,
		OutputPath: outputPath,
		Seed:       seed,
	}
}

// Emitter renders engine.Stats as the run progresses. Console is the
// interactive default; JSON and CSV suit redirected/piped output.
type Emitter interface {
	Progress(engine.Stats)
	Final(Run)
}

// NewConsoleEmitter returns an Emitter that prints a line on every new
// best, formatting counts with humanize for readability, and colors the
// output only when w is a real terminal.
func NewConsoleEmitter(w io.Writer, fd uintptr) Emitter {
	return &consoleEmitter{w: w, tty: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)}
}

type consoleEmitter struct {
	w   io.Writer
	tty bool
}

func (c *consoleEmitter) Progress(s engine.Stats) {
	if !s.Improved {
		return
	}
	line := fmt.Sprintf("iter %s: best=%s ands (added=%d shared=%d reduced=%d)",
		humanize.Comma(int64(s.Iteration)), humanize.Comma(int64(s.BestAndCount)),
		s.ExpandAdded, s.ShareExtracted, s.ReduceChanged)
	if c.tty {
		line = "\x1b[32m" + line + "\x1b[0m"
	}
	fmt.Fprintln(c.w, line)
}

func (c *consoleEmitter) Final(r Run) {
	fmt.Fprintf(c.w, "%s -> %s: %s ands -> %s ands in %s (%s)\n",
		r.InputPath, r.OutputPath,
		humanize.Comma(int64(r.InputAndCount)), humanize.Comma(int64(r.BestAndCount)),
		humanize.Time(r.StartedAt), r.Elapsed)
}

// NewJSONEmitter returns an Emitter that writes one JSON object per
// progress line, then the Run summary, to w.
func NewJSONEmitter(w io.Writer) Emitter { return &jsonEmitter{enc: json.NewEncoder(w)} }

type jsonEmitter struct{ enc *json.Encoder }

func (j *jsonEmitter) Progress(s engine.Stats) {
	if s.Improved {
		j.enc.Encode(s)
	}
}
func (j *jsonEmitter) Final(r Run) { j.enc.Encode(r) }

// NewCSVEmitter returns an Emitter that appends one row per improvement
// plus a trailing Run summary row, matching the donor's CSV report mode.
func NewCSVEmitter(w io.Writer) Emitter {
	cw := csv.NewWriter(w)
	cw.Write([]string{"iteration", "best_and_count", "expand_added", "share_extracted", "reduce_changed"})
	return &csvEmitter{cw: cw}
}

type csvEmitter struct{ cw *csv.Writer }

func (c *csvEmitter) Progress(s engine.Stats) {
	if !s.Improved {
		return
	}
	c.cw.Write([]string{
		strconv.Itoa(s.Iteration),
		strconv.Itoa(s.BestAndCount),
		strconv.Itoa(s.ExpandAdded),
		strconv.Itoa(s.ShareExtracted),
		strconv.Itoa(s.ReduceChanged),
	})
	c.cw.Flush()
}

func (c *csvEmitter) Final(r Run) {
	c.cw.Write([]string{"run", r.ID, strconv.Itoa(r.InputAndCount), strconv.Itoa(r.BestAndCount), r.Elapsed.String()})
	c.cw.Flush()
}
