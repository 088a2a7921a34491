package boostpow

import "testing"

func TestMinimalPushRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x01},
		{0x10},
		{0x81},
		make([]byte, 20),
		make([]byte, 75),
		make([]byte, 76),
		make([]byte, 255),
		make([]byte, 256),
	}
	for _, payload := range cases {
		var s Script
		s.appendPush(payload)
		raw := s.Bytes()
		parsed, err := parseScript(raw)
		if err != nil {
			t.Fatalf("parseScript: %v", err)
		}
		if len(parsed.chunks) != 1 {
			t.Fatalf("expected 1 chunk, got %d", len(parsed.chunks))
		}
		got := parsed.chunks[0].pushValue()
		if len(got) != len(payload) {
			t.Fatalf("round-trip length mismatch: got %d want %d", len(got), len(payload))
		}
	}
}

func TestSmallIntOpcodes(t *testing.T) {
	var s Script
	s.appendPush([]byte{5})
	raw := s.Bytes()
	if raw[0] != Op1+4 {
		t.Fatalf("expected OP_5 (0x55), got %02x", raw[0])
	}
}

func TestAppendRawPreservesExactBytes(t *testing.T) {
	var s Script
	if err := s.appendRaw(BODY_V1); err != nil {
		t.Fatalf("appendRaw: %v", err)
	}
	if !bytesEqual(s.Bytes(), BODY_V1) {
		t.Fatalf("appendRaw did not preserve verbatim bytes")
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
