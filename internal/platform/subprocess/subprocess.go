// Package subprocess provides the bounded-timeout worker-process primitives
// shared by the classifier, embedding, and resume-parser bridges: one-shot
// calls for short-lived workers, and a persistent line-delimited-JSON
// worker for processes that load an artifact once and serve many requests.
package subprocess

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/arjunmehta/shortlist-engine/internal/platform/logger"
	"go.uber.org/zap"
)

// ErrArtifactMissing is returned when the configured binary/artifact path
// does not exist on disk, before any process is spawned.
var ErrArtifactMissing = fmt.Errorf("subprocess artifact not found")

// CheckArtifact verifies path exists and is a regular file.
func CheckArtifact(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return ErrArtifactMissing
	}
	if info.IsDir() {
		return ErrArtifactMissing
	}
	return nil
}

// Call runs binaryPath once with args, writes requestLine to its stdin,
// and reads exactly one line from its stdout, bounded by ctx. On ctx
// cancellation or deadline the child process is killed. Stderr is
// collected and logged, never surfaced to the caller as the response.
func Call(ctx context.Context, log *logger.Logger, binaryPath string, args []string, requestLine []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binaryPath, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("subprocess stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("subprocess stdout pipe: %w", err)
	}
	var stderr stderrBuffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("subprocess start: %w", err)
	}

	if _, err := stdin.Write(append(requestLine, '\n')); err != nil {
		_ = cmd.Process.Kill()
		return nil, fmt.Errorf("subprocess write: %w", err)
	}
	_ = stdin.Close()

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var responseLine []byte
	if scanner.Scan() {
		responseLine = append([]byte(nil), scanner.Bytes()...)
	}

	waitErr := cmd.Wait()
	if stderr.Len() > 0 {
		log.Debug("subprocess stderr", zap.String("binary", binaryPath), zap.String("stderr", stderr.String()))
	}

	if ctx.Err() != nil {
		return nil, fmt.Errorf("subprocess timed out: %w", ctx.Err())
	}
	if waitErr != nil {
		return nil, fmt.Errorf("subprocess exited with error: %w", waitErr)
	}
	if len(responseLine) == 0 {
		return nil, fmt.Errorf("subprocess produced no output")
	}
	return responseLine, nil
}

// Worker wraps a long-lived subprocess that is spawned once (typically
// with a "load" handshake) and then serves many request/response round
// trips over stdin/stdout, one line of JSON each way, serialized by a
// mutex since the protocol has no request ids.
type Worker struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  *bufioWriter
	stdout *bufio.Scanner
	log    *logger.Logger
	path   string
}

// StartWorker spawns binaryPath with args and leaves stdin/stdout open for
// subsequent Send calls. The caller is responsible for an initial
// handshake (e.g. a "load" message) via Send if the worker protocol
// requires one.
func StartWorker(ctx context.Context, log *logger.Logger, binaryPath string, args []string) (*Worker, error) {
	cmd := exec.Command(binaryPath, args...)

	stdinPipe, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("worker stdin pipe: %w", err)
	}
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("worker stdout pipe: %w", err)
	}
	var stderr stderrBuffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("worker start: %w", err)
	}

	scanner := bufio.NewScanner(stdoutPipe)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	w := &Worker{
		cmd:    cmd,
		stdin:  &bufioWriter{w: stdinPipe},
		stdout: scanner,
		log:    log,
		path:   binaryPath,
	}

	go func() {
		<-ctx.Done()
		_ = w.Close()
	}()

	return w, nil
}

// Send writes request as one line to the worker's stdin and reads one
// response line back, bounded by ctx. A ctx deadline that elapses kills
// the worker process outright — callers are expected to restart the
// worker after a timeout, since the line-delimited protocol has no way to
// recover mid-response.
func (w *Worker) Send(ctx context.Context, requestLine []byte) ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	type result struct {
		line []byte
		err  error
	}
	done := make(chan result, 1)

	go func() {
		if err := w.stdin.writeLine(requestLine); err != nil {
			done <- result{nil, fmt.Errorf("worker write: %w", err)}
			return
		}
		if w.stdout.Scan() {
			done <- result{append([]byte(nil), w.stdout.Bytes()...), nil}
			return
		}
		if err := w.stdout.Err(); err != nil {
			done <- result{nil, fmt.Errorf("worker read: %w", err)}
			return
		}
		done <- result{nil, fmt.Errorf("worker closed stdout")}
	}()

	select {
	case <-ctx.Done():
		_ = w.Close()
		return nil, fmt.Errorf("worker call timed out: %w", ctx.Err())
	case r := <-done:
		return r.line, r.err
	}
}

// Close kills the worker process.
func (w *Worker) Close() error {
	if w.cmd.Process == nil {
		return nil
	}
	return w.cmd.Process.Kill()
}

type bufioWriter struct {
	w interface{ Write([]byte) (int, error) }
}

func (b *bufioWriter) writeLine(line []byte) error {
	_, err := b.w.Write(append(append([]byte(nil), line...), '\n'))
	return err
}

type stderrBuffer struct {
	data []byte
}

func (s *stderrBuffer) Write(p []byte) (int, error) {
	s.data = append(s.data, p...)
	return len(p), nil
}

func (s *stderrBuffer) Len() int      { return len(s.data) }
func (s *stderrBuffer) String() string { return string(s.data) }

// Marshal is a small convenience so bridges don't each re-import
// encoding/json for the common request-line case.
func Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}
