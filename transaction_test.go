package boostpow

import (
	"bytes"
	"testing"
)

func TestVarIntRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 0xfc, 0xfd, 0xffff, 0x10000, 0xffffffff, 0x100000000}
	for _, n := range cases {
		var buf bytes.Buffer
		writeVarInt(&buf, n)
		got, off, err := readVarInt(buf.Bytes(), 0)
		if err != nil {
			t.Fatalf("readVarInt(%d): %v", n, err)
		}
		if got != n {
			t.Fatalf("round-trip mismatch: wrote %d got %d", n, got)
		}
		if off != buf.Len() {
			t.Fatalf("consumed %d bytes, want %d", off, buf.Len())
		}
	}
}

func TestTxSerializeRoundTrip(t *testing.T) {
	txid, _ := Digest32FromHex("35b8fcb6882f93bddb928c9872198bcdf057ab93ed615ad938f24a63abde5881")
	tx := Tx{
		Version: 1,
		Inputs: []TxInput{
			{Prevout: TxOutPoint{TxID: txid, Vout: 0}, Script: Bytes{0x51, 0x52}, Sequence: 0xffffffff},
		},
		Outputs: []TxOutput{
			{Satoshis: 1000, Script: Bytes{0x76, 0xa9}},
			{Satoshis: 0, Script: Bytes{0x6a}},
		},
		Locktime: 0,
	}
	raw := tx.Serialize()
	back, err := DecodeTx(raw)
	if err != nil {
		t.Fatalf("DecodeTx: %v", err)
	}
	raw2 := back.Serialize()
	if !bytes.Equal(raw, raw2) {
		t.Fatalf("round-trip mismatch")
	}
	if back.Outputs[0].Satoshis != 1000 {
		t.Fatalf("output value mismatch")
	}
}

func TestEstimateSizeMonotonicInScriptSize(t *testing.T) {
	txid, _ := Digest32FromHex("35b8fcb6882f93bddb928c9872198bcdf057ab93ed615ad938f24a63abde5881")
	base := Tx{
		Version: 1,
		Inputs: []TxInput{
			{Prevout: TxOutPoint{TxID: txid, Vout: 0}, ScriptSize: 10},
		},
		Outputs: []TxOutput{{Satoshis: 0, Script: Bytes{0x6a}}},
	}
	small := base.EstimateSize()
	base.Inputs[0].ScriptSize = 200
	big := base.EstimateSize()
	if big < small {
		t.Fatalf("EstimateSize not monotonic in scriptSize: %d < %d", big, small)
	}
}
