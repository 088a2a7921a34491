package boostpow

import "testing"

func sampleBountyOutput(t *testing.T, value uint64) Output {
	t.Helper()
	content, err := Digest32FromHex("35b8fcb6882f93bddb928c9872198bcdf057ab93ed615ad938f24a63abde5881")
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	nonceZero := uint32(0)
	job, err := NewJob(JobParams{
		Content:        content,
		Diff:           DifficultyMustFromCompact(t, 0x1d00ffff).Float(),
		Category:       0,
		Tag:            make(Bytes, 20),
		AdditionalData: make(Bytes, 32),
		UserNonce:      &nonceZero,
	})
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	var fakeTxID Digest32
	fakeTxID[31] = 1
	return NewOutput(job, fakeTxID, 0, value)
}

// DifficultyMustFromCompact is a tiny test helper wrapping
// DifficultyFromCompact with a t.Fatalf on error.
func DifficultyMustFromCompact(t *testing.T, bits uint32) Difficulty {
	t.Helper()
	d, err := DifficultyFromCompact(bits)
	if err != nil {
		t.Fatalf("DifficultyFromCompact: %v", err)
	}
	return d
}

// TestCreateRedeemTransactionFee follows spec S3: it redeems an 8317-sat
// output at 0.2 sat/byte and checks that the generated transaction has two
// outputs and that the fee taken from the first output, divided by the
// final transaction size, lands in [0.2, 0.3].
func TestCreateRedeemTransactionFee(t *testing.T) {
	const value = uint64(8317)
	out := sampleBountyOutput(t, value)
	k := sampleKey(t)
	claim, err := NewClaim(out, k)
	if err != nil {
		t.Fatalf("NewClaim: %v", err)
	}

	sol := sampleSolution(t, 1)
	const satsPerByte = 0.2
	raw, err := claim.CreateRedeemTransaction(sol, "1264UeZnzrjrMdYn1QSED5TCbY8Gd11e23", satsPerByte, []string{"boostpow", "proof"})
	if err != nil {
		t.Fatalf("CreateRedeemTransaction: %v", err)
	}

	tx, err := DecodeTx(raw)
	if err != nil {
		t.Fatalf("DecodeTx: %v", err)
	}
	if len(tx.Outputs) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(tx.Outputs))
	}

	actualSize := uint64(len(raw))
	fee := value - tx.Outputs[0].Satoshis
	ratio := float64(fee) / float64(actualSize)
	if ratio < 0.2 || ratio > 0.3 {
		t.Fatalf("fee/actualSize out of expected range: fee=%d actualSize=%d ratio=%f", fee, actualSize, ratio)
	}
}

// TestCreateRedeemTransactionInsufficientFunds checks that a fee exceeding
// the output's value is rejected rather than underflowing the satoshi
// arithmetic.
func TestCreateRedeemTransactionInsufficientFunds(t *testing.T) {
	out := sampleBountyOutput(t, 1) // 1 satoshi can never cover any fee
	k := sampleKey(t)
	claim, err := NewClaim(out, k)
	if err != nil {
		t.Fatalf("NewClaim: %v", err)
	}
	sol := sampleSolution(t, 1)
	if _, err := claim.CreateRedeemTransaction(sol, "1264UeZnzrjrMdYn1QSED5TCbY8Gd11e23", 0.2, []string{"boostpow"}); err == nil || !Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

// TestClaimContractRejectsWrongKey reproduces spec S5: constructing a Claim
// for a contract-form output with a key whose pubkey hash does not match
// job.minerPubKeyHash must fail with ErrInvalidPuzzle.
func TestClaimContractRejectsWrongKey(t *testing.T) {
	content, err := Digest32FromHex("35b8fcb6882f93bddb928c9872198bcdf057ab93ed615ad938f24a63abde5881")
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	var wrongHash Digest20
	wrongHash[0] = 0xff

	job, err := NewJob(JobParams{
		Content:         content,
		Diff:            1,
		MinerPubKeyHash: &wrongHash,
	})
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	var fakeTxID Digest32
	out := NewOutput(job, fakeTxID, 0, 10000)

	k := sampleKey(t)
	if _, err := NewClaim(out, k); err == nil || !Is(err, ErrInvalidPuzzle) {
		t.Fatalf("expected ErrInvalidPuzzle, got %v", err)
	}
}

// TestClaimContractAcceptsMatchingKey is the positive counterpart of
// TestClaimContractRejectsWrongKey.
func TestClaimContractAcceptsMatchingKey(t *testing.T) {
	content, err := Digest32FromHex("35b8fcb6882f93bddb928c9872198bcdf057ab93ed615ad938f24a63abde5881")
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	k := sampleKey(t)
	hash := k.PubKeyHash()

	job, err := NewJob(JobParams{
		Content:         content,
		Diff:            1,
		MinerPubKeyHash: &hash,
	})
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	var fakeTxID Digest32
	out := NewOutput(job, fakeTxID, 0, 10000)

	if _, err := NewClaim(out, k); err != nil {
		t.Fatalf("expected matching key to be accepted, got %v", err)
	}
}

// TestProofValidChecksOutpointAndWork exercises the Proof facade end to end:
// a Proof whose redeem solves the puzzle and whose outpoint matches the
// Output's must be Valid; changing either breaks it.
func TestProofValidChecksOutpointAndWork(t *testing.T) {
	out := sampleBountyOutput(t, 8317)

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
	sol := Solution{time: timeField, extraNonce1: extraNonce1, extraNonce2: extraNonce2, nonce: nonce}

	// The same address used in spec S2 / S1, which is known to produce a
	// header hash below the 0x1d00ffff target.
	address, err := Digest20FromHex("9fb8cb68b8850a13c7438e26e1d277b748be657a")
	if err != nil {
		t.Fatalf("address: %v", err)
	}
	k := sampleKey(t)
	redeem, err := NewRedeem(Bytes{0x00}, k.PublicKeyCompressed(), sol, &address)
	if err != nil {
		t.Fatalf("NewRedeem: %v", err)
	}

	att := out.Attachment()
	proof := NewProof(out, redeem, att.TxID, att.Vout)
	valid, err := proof.Valid()
	if err != nil {
		t.Fatalf("Valid: %v", err)
	}
	if !valid {
		t.Fatalf("expected S2-derived solution to solve the puzzle")
	}

	wrongProof := NewProof(out, redeem, att.TxID, att.Vout+1)
	valid, err = wrongProof.Valid()
	if err != nil {
		t.Fatalf("Valid (wrong outpoint): %v", err)
	}
	if valid {
		t.Fatalf("expected mismatched outpoint to invalidate the proof")
	}
}
