package boostpow

import (
	"encoding/hex"
	"testing"
)

// TestPowStringS2 reproduces the spec's S2 end-to-end scenario: a v1
// bounty job plus a redeem's solution fields must assemble into the exact
// documented 80-byte PoW string, whose reversed sha256d hash matches the
// documented value.
func TestPowStringS2(t *testing.T) {
	content, err := Digest32FromHex("35b8fcb6882f93bddb928c9872198bcdf057ab93ed615ad938f24a63abde5881")
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	diff, err := DifficultyFromCompact(0x1d00ffff)
	if err != nil {
		t.Fatalf("difficulty: %v", err)
	}
	nonceZero := uint32(0)
	j, err := NewJob(JobParams{
		Content:        content,
		Diff:           diff.Float(),
		Category:       0,
		Tag:            make(Bytes, 20),
		AdditionalData: make(Bytes, 32),
		UserNonce:      &nonceZero,
	})
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}

	address, err := Digest20FromHex("9fb8cb68b8850a13c7438e26e1d277b748be657a")
	if err != nil {
		t.Fatalf("address: %v", err)
	}
	p, err := NewPuzzleFromJob(j, &address)
	if err != nil {
		t.Fatalf("NewPuzzleFromJob: %v", err)
	}

	timeField, err := UInt32LEFromHex("81c06d5e")
	if err != nil {
		t.Fatalf("time: %v", err)
	}
	extraNonce1, err := UInt32BEFromHex("0a00000a")
	if err != nil {
		t.Fatalf("extraNonce1: %v", err)
	}
	extraNonce2, err := BytesFromHex("bf07000000000000")
	if err != nil {
		t.Fatalf("extraNonce2: %v", err)
	}
	nonce, err := UInt32LEFromHex("e069a11c")
	if err != nil {
		t.Fatalf("nonce: %v", err)
	}

	sol := Solution{
		time:        timeField,
		extraNonce1: extraNonce1,
		extraNonce2: extraNonce2,
		nonce:       nonce,
	}

	header, err := BuildPowString(p, sol)
	if err != nil {
		t.Fatalf("BuildPowString: %v", err)
	}

	wantHeader := "0000000035b8fcb6882f93bddb928c9872198bcdf057ab93ed615ad938f24a63abde588119401f4fd9d4279f4ead46f2bd3ccaabce904f7e17367338c08b2a4aefb9877681c06d5effff001de069a11c"
	if got := hex.EncodeToString(header[:]); got != wantHeader {
		t.Fatalf("PoW string mismatch:\ngot  %s\nwant %s", got, wantHeader)
	}

	sum := sha256d(header[:])
	reversed := append([]byte(nil), sum[:]...)
	reverseBytes(reversed)
	wantHash := "0000000000f0e97bec0c369dd6c7cbde0243a351d8ab138778717c63660afa35"
	if got := hex.EncodeToString(reversed); got != wantHash {
		t.Fatalf("header hash mismatch:\ngot  %s\nwant %s", got, wantHash)
	}
}

func TestVersionWordMaskIdempotence(t *testing.T) {
	mask := NewInt32LE(int32(gprMaskUint32()))
	cat := NewInt32LE(0x12345678)
	gpr := NewInt32LE(0x12345678)
	v, err := versionWord(cat, &mask, &gpr)
	if err != nil {
		t.Fatalf("versionWord: %v", err)
	}
	if v.Int32() != cat.Int32() {
		t.Fatalf("expected identity when gpr == cat under mask, got %x want %x", v.Int32(), cat.Int32())
	}
}

func TestVersionWordRejectsMismatchedPairing(t *testing.T) {
	mask := NewInt32LE(int32(gprMaskUint32()))
	cat := NewInt32LE(0)
	if _, err := versionWord(cat, &mask, nil); err == nil || !Is(err, ErrBadSolution) {
		t.Fatalf("expected ErrBadSolution for mask-without-gpr, got %v", err)
	}
	if _, err := versionWord(cat, nil, &mask); err == nil || !Is(err, ErrBadSolution) {
		t.Fatalf("expected ErrBadSolution for gpr-without-mask, got %v", err)
	}
}

func TestMetaHashDeterminism(t *testing.T) {
	metaBegin := Bytes("tag+hash")
	metaEnd := Bytes("nonce+data")
	en1 := NewUInt32BE(0x0a00000a)
	en2 := Bytes{0xbf, 0x07, 0, 0, 0, 0, 0, 0}
	a := metaHash(metaBegin, en1, en2, metaEnd)
	b := metaHash(metaBegin, en1, en2, metaEnd)
	if a != b {
		t.Fatalf("metaHash not deterministic")
	}
}
