package boostpow

import (
	"math"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// Output couples a Job to the outpoint and value it was actually paid to.
// This is the attached form every facade operation requires; NewOutput
// attaches the outpoint and value to any Job.
type Output struct {
	job Job
}

// NewOutput attaches txid/vout/value to job, yielding a spendable Output.
func NewOutput(job Job, txid Digest32, vout uint32, value uint64) Output {
	return Output{job: job.withAttachment(Attachment{TxID: txid, Vout: vout, Value: value})}
}

func (o Output) Job() Job                 { return o.job }
func (o Output) Attachment() *Attachment { return o.job.Attachment() }

// Claim binds a spendable Output to the private key a caller intends to
// redeem it with (spec §4.G's "Puzzle(output, privateKey)" constructor,
// renamed here to avoid colliding with the work-level Puzzle of §3/§4.E).
// Construction verifies, for a contract-form output, that the key's
// derived pubkey hash equals job.minerPubKeyHash; for a bounty-form
// output it simply records the derived address as the redeem-time miner
// identity.
type Claim struct {
	output  Output
	key     Key
	address Digest20
}

// NewClaim builds a Claim, returning ErrInvalidPuzzle if key does not own
// a contract-form output.
func NewClaim(output Output, key Key) (Claim, error) {
	address := key.PubKeyHash()
	job := output.job
	if job.IsContract() {
		want := job.MinerPubKeyHash()
		if want == nil || !address.Equal(*want) {
			return Claim{}, newErr(ErrInvalidPuzzle, "key does not own this contract output")
		}
	}
	return Claim{output: output, key: key, address: address}, nil
}

func (c Claim) Output() Output { return c.output }
func (c Claim) Address() Digest20 { return c.address }

// workPuzzle builds the §4.E work-level Puzzle this Claim's job implies.
func (c Claim) workPuzzle() (Puzzle, error) {
	job := c.output.job
	if job.IsBounty() {
		addr := c.address
		return NewPuzzleFromJob(job, &addr)
	}
	return NewPuzzleFromJob(job, nil)
}

// Verify reports whether sol solves this Claim's puzzle.
func (c Claim) Verify(sol Solution) error {
	p, err := c.workPuzzle()
	if err != nil {
		return err
	}
	return Verify(p, sol)
}

// redeem signs incomplete's input at inputIndex and returns the resulting
// Redeem, per spec §4.G step 4 ("puzzle.redeem(solution, incomplete, 0)").
func (c Claim) redeem(sol Solution, incomplete Tx, inputIndex int) (Redeem, error) {
	job := c.output.job
	lockingScript, err := job.Encode()
	if err != nil {
		return Redeem{}, err
	}
	att := job.Attachment()
	if att == nil {
		return Redeem{}, newErr(ErrAttachmentMissing, "output carries no attached txid/vout/value")
	}
	sig, err := Sign(incomplete, inputIndex, lockingScript, att.Value, SigHashAll|SigHashForkID, c.key)
	if err != nil {
		return Redeem{}, wrapErr(ErrSignatureFailure, "BIP-143 signing failed", err)
	}
	pub := c.key.PublicKeyCompressed()

	var minerHash *Digest20
	if job.IsBounty() {
		h := c.address
		minerHash = &h
	}
	return NewRedeem(sig, pub, sol, minerHash)
}

// p2pkhLockingScript decodes a base58check P2PKH address and emits the
// standard OP_DUP OP_HASH160 <hash> OP_EQUALVERIFY OP_CHECKSIG script.
func p2pkhLockingScript(address string) (Bytes, error) {
	payload, _, err := base58.CheckDecode(address)
	if err != nil {
		return nil, wrapErr(ErrBadLength, "invalid base58check address", err)
	}
	hash, err := Digest20FromBytes(payload)
	if err != nil {
		return nil, err
	}
	var s Script
	s.appendOp(OpDup)
	s.appendOp(OpHash160)
	s.appendPush(hash.Bytes())
	s.appendOp(OpEqualVerify)
	s.appendOp(OpCheckSig)
	return s.Bytes(), nil
}

// opReturnScript builds an unspendable OP_FALSE OP_RETURN output script
// pushing each element of parts in order.
func opReturnScript(parts []string) Bytes {
	var s Script
	s.appendOp(OpFalse)
	s.appendOp(OpReturn)
	for _, p := range parts {
		s.appendPush([]byte(p))
	}
	return s.Bytes()
}

// CreateRedeemTransaction implements spec §4.G's end-to-end redeem-tx
// builder: a fee-aware 2-output incomplete transaction (receive address,
// OP_RETURN payload), BIP-143 signing, and final serialization.
func (c Claim) CreateRedeemTransaction(sol Solution, receiveAddress string, satsPerByte float64, opReturn []string) (Bytes, error) {
	job := c.output.job
	att := job.Attachment()
	if att == nil {
		return nil, newErr(ErrAttachmentMissing, "output carries no attached txid/vout/value")
	}

	receiveScript, err := p2pkhLockingScript(receiveAddress)
	if err != nil {
		return nil, err
	}
	returnScript := opReturnScript(opReturn)

	expectedSize := expectedSizeFor(job.ScriptVersion(), job.IsBounty(), len(c.key.PublicKeyCompressed()), len(sol.ExtraNonce2()))

	incomplete := Tx{
		Version: 1,
		Inputs: []TxInput{
			{Prevout: TxOutPoint{TxID: att.TxID, Vout: att.Vout}, ScriptSize: uint64(expectedSize), Sequence: defaultSequence},
		},
		Outputs: []TxOutput{
			{Satoshis: 0, Script: receiveScript},
			{Satoshis: 0, Script: returnScript},
		},
	}

	estimated := incomplete.EstimateSize()
	fee := uint64(math.Ceil(float64(estimated) * satsPerByte))
	if fee >= att.Value {
		return nil, newErr(ErrInsufficientFunds, "estimated fee exceeds output value")
	}
	incomplete.Outputs[0].Satoshis = att.Value - fee

	redeemed, err := c.redeem(sol, incomplete, 0)
	if err != nil {
		return nil, err
	}
	finalScript, err := redeemed.Encode(job.ScriptVersion())
	if err != nil {
		return nil, err
	}

	complete := incomplete
	complete.Inputs = []TxInput{
		{Prevout: incomplete.Inputs[0].Prevout, Script: finalScript, Sequence: defaultSequence},
	}
	return complete.Serialize(), nil
}

// Proof couples a spendable Output to the Redeem that (claims to) spend
// it. Valid reports whether the Redeem's declared outpoint matches the
// Output's and the embedded solution actually satisfies the Output's
// work-level puzzle.
type Proof struct {
	output          Output
	redeem          Redeem
	spentTxID       Digest32
	spentVout       uint32
}

// NewProof couples output with a redeem claimed to spend it at
// (spentTxID, spentVout) — the outpoint the redeeming transaction's input
// actually references.
func NewProof(output Output, redeem Redeem, spentTxID Digest32, spentVout uint32) Proof {
	return Proof{output: output, redeem: redeem, spentTxID: spentTxID, spentVout: spentVout}
}

func (p Proof) Output() Output { return p.output }
func (p Proof) Redeem() Redeem { return p.redeem }

// Valid reports whether this Proof's outpoint matches its Output's, and
// the redeem's solution satisfies the job's work-level puzzle.
func (p Proof) Valid() (bool, error) {
	att := p.output.Attachment()
	if att == nil {
		return false, newErr(ErrAttachmentMissing, "output carries no attached txid/vout/value")
	}
	if !att.TxID.Equal(p.spentTxID) || att.Vout != p.spentVout {
		return false, nil
	}

	job := p.output.job
	var puzzle Puzzle
	var err error
	if job.IsBounty() {
		h := p.redeem.MinerPubKeyHash()
		if h == nil {
			return false, newErr(ErrBadSolution, "bounty redeem missing minerPubKeyHash")
		}
		puzzle, err = NewPuzzleFromJob(job, h)
	} else {
		puzzle, err = NewPuzzleFromJob(job, nil)
	}
	if err != nil {
		return false, err
	}

	if err := Verify(puzzle, p.redeem.Solution()); err != nil {
		if Is(err, ErrInvalidProof) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
