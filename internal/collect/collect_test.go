package collect

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
)

func loadTestData(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("../../test/testdata/" + name)
	if err != nil {
		t.Fatalf("failed to load test data %s: %v", name, err)
	}
	return string(data)
}

// fakeRunner serves canned output keyed by a substring of the command.
type fakeRunner struct {
	outputs map[string]string
}

func (r fakeRunner) Run(_ context.Context, command string) ([]byte, error) {
	for key, out := range r.outputs {
		if strings.Contains(command, key) {
			return []byte(out), nil
		}
	}
	return nil, fmt.Errorf("command failed: %s", command)
}

func testOptions() Options {
	return DefaultOptions()
}
