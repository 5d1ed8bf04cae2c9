package cmdexec

import (
	"context"
	"strings"
	"sync"
)

// Fake is a scripted Runner for tests. Responses are keyed by command-line
// prefix; the longest matching prefix wins. Every invocation is recorded so
// tests can assert exactly which commands ran (or that none did).
type Fake struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	fallback  fakeResponse
	calls     []Command
}

type fakeResponse struct {
	result *Result
	err    error
}

// NewFake creates a Fake whose unmatched commands succeed with empty output.
func NewFake() *Fake {
	return &Fake{
		responses: make(map[string]fakeResponse),
		fallback:  fakeResponse{result: &Result{}},
	}
}

var _ Runner = (*Fake)(nil)

// Stub registers a response for any command line starting with prefix.
func (f *Fake) Stub(prefix string, result *Result, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if result == nil {
		result = &Result{}
	}
	f.responses[prefix] = fakeResponse{result: result, err: err}
}

// StubDefault replaces the response used when no prefix matches.
func (f *Fake) StubDefault(result *Result, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if result == nil {
		result = &Result{}
	}
	f.fallback = fakeResponse{result: result, err: err}
}

// Run records the invocation and replays the scripted response.
func (f *Fake) Run(ctx context.Context, cmd Command) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, cmd)

	line := cmd.String()
	match := ""
	for prefix := range f.responses {
		if strings.HasPrefix(line, prefix) && len(prefix) > len(match) {
			match = prefix
		}
	}

	resp := f.fallback
	if match != "" {
		resp = f.responses[match]
	}

	copied := *resp.result
	return &copied, resp.err
}

// Calls returns a snapshot of every recorded invocation.
func (f *Fake) Calls() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Command, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallLines returns every recorded invocation rendered as a command line.
func (f *Fake) CallLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, cmd := range f.calls {
		out[i] = cmd.String()
	}
	return out
}

// CallCount reports how many commands were issued.
func (f *Fake) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
