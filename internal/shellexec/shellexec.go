package shellexec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Options describes one external command invocation.
type Options struct {
	Command string
	Shell   string
	WorkDir string
	// Env entries are appended over the parent process environment.
	Env map[string]string
	// Stdout/Stderr, when set, receive the command output in addition to
	// the captured buffers.
	Stdout io.Writer
	Stderr io.Writer
}

// Result captures the output emitted by a command run.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run executes the command through a shell and collects its output. A
// non-zero exit status and an environment-level failure (no shell, spawn
// error) both surface as a non-nil error; callers treat them alike.
func Run(ctx context.Context, opts Options) (Result, error) {
	shell, shellArgs, err := determineShell(opts.Shell)
	if err != nil {
		return Result{ExitCode: -1}, err
	}

	args := append(shellArgs, opts.Command)
	cmd := exec.CommandContext(ctx, shell, args...)
	cmd.Env = buildEnv(opts.Env)
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	if opts.Stdout != nil {
		cmd.Stdout = io.MultiWriter(opts.Stdout, &stdoutBuf)
	} else {
		cmd.Stdout = &stdoutBuf
	}
	if opts.Stderr != nil {
		cmd.Stderr = io.MultiWriter(opts.Stderr, &stderrBuf)
	} else {
		cmd.Stderr = &stderrBuf
	}

	runErr := cmd.Run()

	res := Result{
		Stdout: strings.TrimSpace(stdoutBuf.String()),
		Stderr: strings.TrimSpace(stderrBuf.String()),
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	} else {
		res.ExitCode = -1
	}

	return res, runErr
}

// PrimaryOutput returns stderr if present, otherwise stdout.
func PrimaryOutput(res Result) string {
	if res.Stderr != "" {
		return res.Stderr
	}
	return res.Stdout
}

func determineShell(explicit string) (string, []string, error) {
	if explicit != "" {
		return explicit, []string{"-c"}, nil
	}

	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C"}, nil
	}

	if path, err := exec.LookPath("bash"); err == nil {
		return path, []string{"-c"}, nil
	}

	if path, err := exec.LookPath("sh"); err == nil {
		return path, []string{"-c"}, nil
	}

	return "", nil, fmt.Errorf("no suitable shell found")
}

func buildEnv(custom map[string]string) []string {
	env := os.Environ()
	for k, v := range custom {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	return env
}
