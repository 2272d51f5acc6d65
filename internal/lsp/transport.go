package lsp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/unnathi84/PatchWise/pkg/logging"
)

// Transport owns the analysis-server child process and its three pipes.
// One goroutine drains stderr for the lifetime of the process; a subprocess
// whose stderr goes unread can block indefinitely on write once the pipe
// buffer fills.
type Transport struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader

	// rawStdout is the unbuffered pipe end, kept for deadline-based polling.
	rawStdout *os.File

	logger *logging.Logger
}

// StartTransport launches command with the given args in workDir and wires
// up its pipes. Stderr lines are appended to stderrLog and echoed to the
// debug log until the process exits.
func StartTransport(command string, args []string, workDir, stderrLog string, logger *logging.Logger) (*Transport, error) {
	cmd := exec.Command(command, args...)
	cmd.Dir = workDir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", command, err)
	}

	go drainStderr(stderr, stderrLog, logger)

	t := &Transport{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
		logger: logger,
	}
	if f, ok := stdout.(*os.File); ok {
		t.rawStdout = f
	}
	return t, nil
}

func drainStderr(stderr io.Reader, logPath string, logger *logging.Logger) {
	var logFile *os.File
	if logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			logger.Error("failed to create stderr log", "path", logPath, "error", err)
		} else {
			logFile = f
			defer f.Close()
		}
	}

	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		logger.Debug("clangd stderr", "line", line)
		if logFile != nil {
			fmt.Fprintln(logFile, line)
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Debug("stderr drain ended", "error", err)
	}
}

// Send encodes msg and writes the frame to the child's stdin.
func (t *Transport) Send(msg any) error {
	frame, err := EncodeMessage(msg)
	if err != nil {
		return err
	}
	if _, err := t.stdin.Write(frame); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// Receive blocks until one complete frame body is available.
func (t *Transport) Receive() ([]byte, error) {
	return ReadMessage(t.stdout)
}

// HasPendingFrame reports whether at least one byte of a frame is already
// available without blocking. Bytes buffered from an earlier read count;
// otherwise the pipe is probed with an immediate read deadline.
func (t *Transport) HasPendingFrame() bool {
	if t.stdout.Buffered() > 0 {
		return true
	}
	if t.rawStdout == nil {
		return false
	}
	if err := t.rawStdout.SetReadDeadline(time.Now()); err != nil {
		return false
	}
	_, err := t.stdout.Peek(1)
	if derr := t.rawStdout.SetReadDeadline(time.Time{}); derr != nil {
		t.logger.Debug("failed to clear read deadline", "error", derr)
	}
	return err == nil
}

// Close terminates the child process. There is no shutdown handshake; the
// process receives SIGTERM and is reaped in the background. A failure to
// terminate is logged, not escalated.
func (t *Transport) Close() error {
	if t.stdin != nil {
		t.stdin.Close()
	}
	if t.cmd.Process != nil {
		if err := t.cmd.Process.Signal(syscall.SIGTERM); err != nil {
			t.logger.Warn("failed to terminate analysis server", "error", err)
		}
	}
	go func() {
		if err := t.cmd.Wait(); err != nil {
			t.logger.Debug("analysis server exited", "error", err)
		}
	}()
	return nil
}
