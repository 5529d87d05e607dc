package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestTransportError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *TransportError
		wantText string
	}{
		{
			name: "error with url",
			err: &TransportError{
				Op:  "send request",
				URL: "http://example.invalid/",
				Err: fmt.Errorf("no such host"),
			},
			wantText: "send request http://example.invalid/: no such host",
		},
		{
			name: "error without url",
			err: &TransportError{
				Op:  "read body",
				Err: fmt.Errorf("unexpected EOF"),
			},
			wantText: "read body: unexpected EOF",
		},
		{
			name: "error with empty url",
			err: &TransportError{
				Op:  "create request",
				URL: "",
				Err: fmt.Errorf("missing protocol scheme"),
			},
			wantText: "create request: missing protocol scheme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.wantText {
				t.Errorf("Error() = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestTransportError_Unwrap(t *testing.T) {
	underlyingErr := fmt.Errorf("underlying error")
	transportErr := &TransportError{
		Op:  "send request",
		Err: underlyingErr,
	}

	unwrapped := transportErr.Unwrap()
	if unwrapped != underlyingErr {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, underlyingErr)
	}
}

func TestErrorWrapping(t *testing.T) {
	baseErr := errors.New("connection refused")
	wrappedErr := fmt.Errorf("fetch: %w", &TransportError{
		Op:  "send request",
		URL: "http://127.0.0.1:1/",
		Err: baseErr,
	})

	if !errors.Is(wrappedErr, baseErr) {
		t.Error("errors.Is() should find base error in wrapped error")
	}

	var transportErr *TransportError
	if !errors.As(wrappedErr, &transportErr) {
		t.Fatal("errors.As() should match TransportError type")
	}

	if transportErr.Op != "send request" {
		t.Errorf("errors.As() extracted wrong TransportError: got Op=%q, want %q", transportErr.Op, "send request")
	}

	if !IsTransportError(wrappedErr) {
		t.Error("IsTransportError() = false, want true")
	}
	if IsTransportError(baseErr) {
		t.Error("IsTransportError() = true for a plain error")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"transport", &TransportError{Op: "send request", Err: errors.New("refused")}, ExitNetworkError},
		{"wrapped transport", fmt.Errorf("run: %w", &TransportError{Op: "read body", Err: errors.New("reset")}), ExitNetworkError},
		{"other", errors.New("write body: broken pipe"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExitCodes(t *testing.T) {
	codes := map[string]int{
		"ExitSuccess":      ExitSuccess,
		"ExitGeneralError": ExitGeneralError,
		"ExitNetworkError": ExitNetworkError,
	}

	seen := make(map[int]string)
	for name, code := range codes {
		if prevName, exists := seen[code]; exists {
			t.Errorf("Exit codes %s and %s have the same value: %d", name, prevName, code)
		}
		seen[code] = name
	}

	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess = %d, want 0", ExitSuccess)
	}

	for name, code := range codes {
		if name == "ExitSuccess" {
			continue
		}
		if code <= 0 || code > 255 {
			t.Errorf("%s = %d, should be in range 1-255", name, code)
		}
	}
}
