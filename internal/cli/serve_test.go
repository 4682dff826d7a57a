package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestServeCmd(t *testing.T) {
	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"shapes_cluster","arguments":{"shapes":[{"area":400,"perimeter":80}]}}}`,
	}, "\n")

	out, err := runCLI(t, strings.NewReader(input), "serve")
	if err != nil {
		t.Fatalf("serve failed: %v", err)
	}

	dec := json.NewDecoder(bytes.NewBufferString(out))
	var count int
	for dec.More() {
		var resp struct {
			ID    float64         `json:"id"`
			Error json.RawMessage `json:"error"`
		}
		if err := dec.Decode(&resp); err != nil {
			t.Fatalf("stdout should carry only JSON-RPC responses: %v\n%s", err, out)
		}
		if resp.Error != nil {
			t.Errorf("response %v: unexpected error %s", resp.ID, resp.Error)
		}
		count++
	}
	if count != 2 {
		t.Errorf("expected 2 responses, got %d", count)
	}
}
