package runtime

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func TestExecRunner_EmptyCommand(t *testing.T) {
	r := &ExecRunner{}
	if _, err := r.Run(context.Background(), t.TempDir(), nil, nil); !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("Run(nil) error = %v, want ErrEmptyCommand", err)
	}
}

func TestExecRunner_MissingBinary(t *testing.T) {
	r := &ExecRunner{}
	_, err := r.Run(context.Background(), t.TempDir(), []string{"labext-no-such-binary"}, nil)
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestExecRunner_CapturesOutputAndEnv(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available, skipping")
	}

	var stdout bytes.Buffer
	r := &ExecRunner{Stdout: &stdout, Stderr: &bytes.Buffer{}}
	dir := t.TempDir()

	out, err := r.Run(context.Background(), dir, []string{"sh", "-c", "echo $LABEXT_STAGING; pwd"}, map[string]string{
		"LABEXT_STAGING": "staged",
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", out.ExitCode)
	}
	if !strings.HasPrefix(out.Stdout, "staged\n") {
		t.Errorf("Stdout = %q, want env value first", out.Stdout)
	}
	if stdout.String() != out.Stdout {
		t.Errorf("streamed output %q differs from captured %q", stdout.String(), out.Stdout)
	}
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available, skipping")
	}

	r := &ExecRunner{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	out, err := r.Run(context.Background(), t.TempDir(), []string{"sh", "-c", "echo broken >&2; exit 3"}, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", out.ExitCode)
	}
	if strings.TrimSpace(out.Stderr) != "broken" {
		t.Errorf("Stderr = %q", out.Stderr)
	}
}

func TestSplitCommand(t *testing.T) {
	got := SplitCommand("  npm run   build ")
	want := []string{"npm", "run", "build"}
	if len(got) != len(want) {
		t.Fatalf("SplitCommand() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SplitCommand()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if len(SplitCommand("")) != 0 {
		t.Error("SplitCommand(\"\") should be empty")
	}
}

func TestSetEnv(t *testing.T) {
	env := []string{"A=1", "B=2"}
	env = setEnv(env, "A", "9")
	env = setEnv(env, "C", "3")

	want := []string{"A=9", "B=2", "C=3"}
	for i := range want {
		if env[i] != want[i] {
			t.Errorf("env[%d] = %q, want %q", i, env[i], want[i])
		}
	}
}
