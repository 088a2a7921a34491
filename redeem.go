package boostpow

// Redeem is the unlocking-script-level representation of a Boost spend.
// minerPubKeyHash is present iff the corresponding Job is bounty-form (the
// miner chose the address at redeem time); for contract jobs the hash
// lives in the locking script instead.
type Redeem struct {
	signature       Bytes
	minerPubKey     Bytes // 33 or 65 bytes
	solution        Solution
	minerPubKeyHash *Digest20
}

// NewRedeem builds an immutable Redeem. minerPubKeyHash must be provided
// iff the job being spent is bounty-form.
func NewRedeem(signature, minerPubKey Bytes, solution Solution, minerPubKeyHash *Digest20) (Redeem, error) {
	if len(minerPubKey) != 33 && len(minerPubKey) != 65 {
		return Redeem{}, newErr(ErrBadLength, "minerPubKey must be 33 or 65 bytes")
	}
	r := Redeem{
		signature:   append(Bytes(nil), signature...),
		minerPubKey: append(Bytes(nil), minerPubKey...),
		solution:    solution,
	}
	if minerPubKeyHash != nil {
		h := *minerPubKeyHash
		r.minerPubKeyHash = &h
	}
	return r, nil
}

func (r Redeem) Signature() Bytes    { return append(Bytes(nil), r.signature...) }
func (r Redeem) MinerPubKey() Bytes  { return append(Bytes(nil), r.minerPubKey...) }
func (r Redeem) Solution() Solution  { return r.solution }
func (r Redeem) IsBounty() bool      { return r.minerPubKeyHash != nil }

func (r Redeem) MinerPubKeyHash() *Digest20 {
	if r.minerPubKeyHash == nil {
		return nil
	}
	h := *r.minerPubKeyHash
	return &h
}

// Encode emits the byte-exact Boost unlocking script for this Redeem, for
// a job of the given script version (1 or 2).
//
// Bounty:   signature pubkey [gpr (v2)] nonce time extraNonce2 extraNonce1 minerPubKeyHash
// Contract: signature pubkey [gpr (v2)] nonce time extraNonce2 extraNonce1
func (r Redeem) Encode(scriptVersion int) ([]byte, error) {
	if scriptVersion == 2 && r.solution.generalPurposeBits == nil {
		return nil, newErr(ErrBadSolution, "v2 redeem requires generalPurposeBits")
	}
	if scriptVersion == 1 && r.solution.generalPurposeBits != nil {
		return nil, newErr(ErrBadSolution, "v1 redeem must not carry generalPurposeBits")
	}
	if scriptVersion == 1 && len(r.solution.extraNonce2) != 8 {
		return nil, newErr(ErrBadLength, "v1 extraNonce2 must be exactly 8 bytes")
	}
	if len(r.solution.extraNonce2) > 32 {
		return nil, newErr(ErrBadLength, "extraNonce2 must be <= 32 bytes")
	}

	var s Script
	s.appendPush(r.signature)
	s.appendPush(r.minerPubKey)
	if scriptVersion == 2 {
		s.appendPush(r.solution.generalPurposeBits.Bytes())
	}
	s.appendPush(r.solution.nonce.Bytes())
	s.appendPush(r.solution.time.Bytes())
	s.appendPush(r.solution.extraNonce2)
	s.appendPush(r.solution.extraNonce1.Bytes())
	if r.IsBounty() {
		s.appendPush(r.minerPubKeyHash.Bytes())
	}
	return s.Bytes(), nil
}

// DecodeRedeem parses a Boost unlocking script. isBounty and scriptVersion
// must be known from the corresponding Job (the unlocking script alone
// does not self-describe them).
func DecodeRedeem(raw []byte, isBounty bool, scriptVersion int) (Redeem, error) {
	s, err := parseScript(raw)
	if err != nil {
		return Redeem{}, err
	}
	c := s.chunks
	want := 6
	if scriptVersion == 2 {
		want++
	}
	if isBounty {
		want++
	}
	if len(c) != want {
		return Redeem{}, newErrAt(ErrBadScript, "unexpected unlocking script chunk count", 0)
	}

	idx := 0
	signature := c[idx].pushValue()
	idx++
	pubkey := c[idx].pushValue()
	if len(pubkey) != 33 && len(pubkey) != 65 {
		return Redeem{}, newErrAt(ErrBadLength, "minerPubKey must be 33 or 65 bytes", idx)
	}
	idx++

	var gpr *Int32LE
	if scriptVersion == 2 {
		g, err := Int32LEFromBytes(c[idx].pushValue())
		if err != nil {
			return Redeem{}, err
		}
		gpr = &g
		idx++
	}

	nonce, err := UInt32LEFromBytes(c[idx].pushValue())
	if err != nil {
		return Redeem{}, err
	}
	idx++

	timeField, err := UInt32LEFromBytes(c[idx].pushValue())
	if err != nil {
		return Redeem{}, err
	}
	idx++

	en2 := c[idx].pushValue()
	if scriptVersion == 1 && len(en2) != 8 {
		return Redeem{}, newErrAt(ErrBadLength, "v1 extraNonce2 must be exactly 8 bytes", idx)
	}
	if len(en2) > 32 {
		return Redeem{}, newErrAt(ErrBadLength, "extraNonce2 must be <= 32 bytes", idx)
	}
	idx++

	en1, err := UInt32BEFromBytes(c[idx].pushValue())
	if err != nil {
		return Redeem{}, err
	}
	idx++

	var minerHash *Digest20
	if isBounty {
		h, err := Digest20FromBytes(c[idx].pushValue())
		if err != nil {
			return Redeem{}, err
		}
		minerHash = &h
		idx++
	}

	sol := Solution{
		time:               timeField,
		extraNonce1:        en1,
		extraNonce2:        append(Bytes(nil), en2...),
		nonce:              nonce,
		generalPurposeBits: gpr,
	}

	return NewRedeem(signature, pubkey, sol, minerHash)
}

// expectedSizeFor returns the conservative expected byte size of this
// Redeem's unlocking script for fee estimation: push-overhead (1 byte per
// <=75-byte push) + signature (73 max, DER+sighash byte) + pubkey (33 or
// 65) + (v2 ? 4 (gpr) : 0) + 4 (nonce) + 4 (time) + extraNonce2 +
// 4 (extraNonce1) + (bounty ? 20 : 0).
func expectedSizeFor(scriptVersion int, bounty bool, pubKeyLen int, extraNonce2Len int) int {
	const maxSig = 73
	size := 1 + maxSig // push-overhead + signature
	size += 1 + pubKeyLen
	if scriptVersion == 2 {
		size += 1 + 4 // gpr
	}
	size += 1 + 4 // nonce
	size += 1 + 4 // time
	size += 1 + extraNonce2Len
	size += 1 + 4 // extraNonce1
	if bounty {
		size += 1 + 20
	}
	return size
}

// ExpectedSize returns this Redeem's conservative expected unlocking-script
// size, used for fee calculation before signing.
func (r Redeem) ExpectedSize(scriptVersion int) int {
	return expectedSizeFor(scriptVersion, r.IsBounty(), len(r.minerPubKey), len(r.solution.extraNonce2))
}
