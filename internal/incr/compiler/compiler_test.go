package compiler

import (
	"context"
	"os/exec"
	"testing"
)

func TestRunSuccess(t *testing.T) {
	path, err := exec.LookPath("true")
	if err != nil {
		t.Skip("no 'true' binary on this system")
	}
	res, err := Run(context.Background(), Invocation{CompilerPath: path})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !res.Success {
		t.Error("Success = false, want true")
	}
}

func TestRunNonZeroExitIsNotAnError(t *testing.T) {
	path, err := exec.LookPath("false")
	if err != nil {
		t.Skip("no 'false' binary on this system")
	}
	res, err := Run(context.Background(), Invocation{CompilerPath: path})
	if err != nil {
		t.Fatalf("Run() error = %v, want nil (non-zero exit reported via Result)", err)
	}
	if res.Success {
		t.Error("Success = true, want false")
	}
}

func TestRunMissingBinaryIsFatal(t *testing.T) {
	_, err := Run(context.Background(), Invocation{CompilerPath: "/nonexistent/path/to/scalac-does-not-exist"})
	if err == nil {
		t.Fatal("expected an error when the compiler binary cannot be started")
	}
}
