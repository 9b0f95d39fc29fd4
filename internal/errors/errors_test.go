package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	base := stderrors.New("no active user")

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      stderrors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name:     "hinted error",
			err:      WithHint(base, "run 'basket user use <name>'"),
			expected: "Error: no active user\nHint: run 'basket user use <name>'",
		},
		{
			name:     "hint survives wrapping",
			err:      fmt.Errorf("starting session: %w", WithHint(base, "pick a user")),
			expected: "Error: starting session: no active user\nHint: pick a user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("list %q not found", "Feira")
	want := `Error: list "Feira" not found`
	if got != want {
		t.Errorf("Formatf() = %q, want %q", got, want)
	}
}

func TestWithHint(t *testing.T) {
	if WithHint(nil, "ignored") != nil {
		t.Error("WithHint(nil) should return nil")
	}

	base := stderrors.New("boom")
	err := WithHint(base, "try again")
	if !stderrors.Is(err, base) {
		t.Error("hinted error should unwrap to the original")
	}
}

func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(stderrors.New("test error"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		if e.ExitCode() != 1 {
			t.Errorf("Fatal() exit code = %d, want 1", e.ExitCode())
		}
		if !strings.Contains(stderr.String(), "Error: test error") {
			t.Errorf("Fatal() stderr = %q, want to contain %q", stderr.String(), "Error: test error")
		}
	} else {
		t.Errorf("Fatal() did not exit with error: %v", err)
	}
}
