package solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by [Runner.Solve] when the solver binary is
	// not on PATH (or at the configured path).
	ErrNotFound = errors.New("solver binary not found")

	// ErrNoResult is returned by [Runner.Solve] whenever an invocation
	// fails to produce usable output: non-zero exit, timeout, or a
	// cancelled context. Callers treat it as "no decomposition", never as
	// partial output.
	ErrNoResult = errors.New("solver produced no result")
)

// Runner invokes an external exact decomposition solver as a subprocess.
// The solver reads the problem on stdin and answers on stdout; whatever it
// writes to stderr is progress chatter and surfaces only in logs and
// failure messages. Exit codes and environment stay inside this package:
// callers either get output bytes or ErrNoResult.
type Runner struct {
	// Path is the solver executable, looked up on PATH if not absolute.
	Path string
	// Args are extra arguments passed on every invocation.
	Args []string
	// Dir is the working directory for the solver, for binaries that
	// expect auxiliary files next to them. Empty means inherit.
	Dir string
	// Timeout bounds a single invocation; zero means no limit. Exact
	// solvers are exponential in the worst case, so batch runs want one.
	Timeout time.Duration
	// KeepArtifacts dumps each invocation's input and output under
	// ArtifactDir, named by run ID, for replaying failures by hand.
	KeepArtifacts bool
	ArtifactDir   string

	Logger *log.Logger
}

// NewRunner creates a Runner for the given solver executable with no
// timeout and logging discarded.
func NewRunner(path string) *Runner {
	return &Runner{Path: path, Logger: log.New(io.Discard)}
}

// Solve runs the solver once with input on stdin and returns its stdout.
// Each invocation gets a run ID that appears in every related log line
// and artifact file name. The context and the Runner's Timeout both bound
// the invocation; on expiry the process is killed and ErrNoResult is
// returned - a timed-out solver never yields partial output, and the
// deterministic encoding means the call can be retried with byte-identical
// input.
func (r *Runner) Solve(ctx context.Context, input []byte) ([]byte, error) {
	logger := r.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	if _, err := exec.LookPath(r.Path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, r.Path)
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	run := uuid.NewString()
	logger.Debug("invoking solver", "run", run, "path", r.Path, "input_bytes", len(input))
	r.dumpArtifact(logger, run+".gr", input)

	cmd := exec.CommandContext(ctx, r.Path, r.Args...)
	cmd.Dir = r.Dir
	cmd.Stdin = bytes.NewReader(input)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	switch {
	case ctx.Err() != nil:
		logger.Warn("solver run abandoned", "run", run, "after", elapsed, "cause", ctx.Err())
		return nil, fmt.Errorf("%w: %v after %s", ErrNoResult, ctx.Err(), elapsed.Round(time.Millisecond))
	case err != nil:
		logger.Warn("solver run failed", "run", run, "after", elapsed, "err", err)
		return nil, fmt.Errorf("%w: %v%s", ErrNoResult, err, stderrTail(errBuf.String()))
	}

	logger.Debug("solver run finished", "run", run, "after", elapsed, "output_bytes", out.Len())
	r.dumpArtifact(logger, run+".td", out.Bytes())
	return out.Bytes(), nil
}

// dumpArtifact writes one invocation artifact when KeepArtifacts is on.
// Artifact failures are logged, not returned.
func (r *Runner) dumpArtifact(logger *log.Logger, name string, data []byte) {
	if !r.KeepArtifacts || r.ArtifactDir == "" {
		return
	}
	if err := os.MkdirAll(r.ArtifactDir, 0o755); err != nil {
		logger.Warn("cannot create artifact dir", "dir", r.ArtifactDir, "err", err)
		return
	}
	path := filepath.Join(r.ArtifactDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Warn("cannot write artifact", "path", path, "err", err)
	}
}

func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return ": " + strings.Join(lines, "; ")
}
