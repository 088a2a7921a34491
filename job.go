package boostpow

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
)

// boostMagic is the literal marker every Boost locking script begins with:
// PUSH "boostpow" OP_DROP.
var boostMagic = []byte("boostpow")

// Job is the locking-script-level representation of a Boost output. It is
// immutable once constructed, either by DecodeJob or by NewJob.
type Job struct {
	content               Digest32
	diff                  Difficulty
	category              Int32LE
	tag                   Bytes // len <= 20
	additionalData        Bytes
	userNonce             UInt32LE
	useGeneralPurposeBits bool
	minerPubKeyHash       *Digest20 // nil for bounty form

	attached *Attachment
}

// Attachment records the outpoint and value a Job was paid to. It is set
// only by NewOutput.
type Attachment struct {
	TxID  Digest32
	Vout  uint32
	Value uint64
}

// JobParams is the structured builder input mirroring the external JSON job
// form (spec §6). Zero-value fields take the documented defaults.
type JobParams struct {
	Content               Digest32
	Diff                  float64
	Category              int32
	Tag                   Bytes
	AdditionalData        Bytes
	UserNonce             *uint32 // nil => random
	UseGeneralPurposeBits bool
	MinerPubKeyHash       *Digest20 // non-nil => contract form
}

// NewJob builds an immutable Job from structured parameters, applying the
// external JSON form's defaults (spec §6): category=0, tag="",
// additionalData="", userNonce=random, useGeneralPurposeBits=false.
func NewJob(p JobParams) (Job, error) {
	if len(p.Tag) > 20 {
		return Job{}, newErr(ErrBadLength, "tag must be <= 20 bytes")
	}
	if p.Diff <= 0 {
		return Job{}, newErr(ErrBadTarget, "diff must be positive")
	}
	diff, err := DifficultyFromFloat(p.Diff)
	if err != nil {
		return Job{}, err
	}
	var userNonce UInt32LE
	if p.UserNonce != nil {
		userNonce = NewUInt32LE(*p.UserNonce)
	} else {
		var b [4]byte
		if _, err := rand.Read(b[:]); err != nil {
			return Job{}, wrapErr(ErrSignatureFailure, "random userNonce generation failed", err)
		}
		userNonce, _ = UInt32LEFromBytes(b[:])
	}
	j := Job{
		content:               p.Content,
		diff:                  diff,
		category:              NewInt32LE(p.Category),
		tag:                   append(Bytes(nil), p.Tag...),
		additionalData:        append(Bytes(nil), p.AdditionalData...),
		userNonce:             userNonce,
		useGeneralPurposeBits: p.UseGeneralPurposeBits,
	}
	if p.MinerPubKeyHash != nil {
		h := *p.MinerPubKeyHash
		j.minerPubKeyHash = &h
	}
	return j, nil
}

// IsContract reports whether this Job commits to a specific miner's pubkey
// hash.
func (j Job) IsContract() bool { return j.minerPubKeyHash != nil }

// IsBounty reports whether this Job is open to any miner.
func (j Job) IsBounty() bool { return j.minerPubKeyHash == nil }

// ScriptVersion returns 2 for ASICBoost (general-purpose-bits) jobs, 1 otherwise.
func (j Job) ScriptVersion() int {
	if j.useGeneralPurposeBits {
		return 2
	}
	return 1
}

// MagicNumber returns the job's 16 "user-free" bits (spec §4.C.3). For a v1
// job that is the low 16 bits of category; for a v2 (ASICBoost) job,
// category instead carries masked version bits, so the user-free bits are
// the 16 taken from the complement of the ASICBoost mask
// (^gprMaskUint32() == 0x1fffe000, a contiguous run at bits 13-28).
func (j Job) MagicNumber() UInt16LE {
	cat := uint32(j.category.Int32())
	if !j.useGeneralPurposeBits {
		return NewUInt16LE(uint16(cat))
	}
	userFree := ^gprMaskUint32()
	return NewUInt16LE(uint16((cat & userFree) >> 13))
}

func (j Job) Content() Digest32             { return j.content }
func (j Job) Difficulty() Difficulty        { return j.diff }
func (j Job) Category() Int32LE             { return j.category }
func (j Job) Tag() Bytes                    { return append(Bytes(nil), j.tag...) }
func (j Job) AdditionalData() Bytes         { return append(Bytes(nil), j.additionalData...) }
func (j Job) UserNonce() UInt32LE           { return j.userNonce }
func (j Job) UseGeneralPurposeBits() bool   { return j.useGeneralPurposeBits }
func (j Job) Attachment() *Attachment       { return j.attached }

// MinerPubKeyHash returns the committed miner pubkey hash for a contract
// job, or nil for a bounty job.
func (j Job) MinerPubKeyHash() *Digest20 {
	if j.minerPubKeyHash == nil {
		return nil
	}
	h := *j.minerPubKeyHash
	return &h
}

// withAttachment returns a copy of j with its Attachment set. Used only by
// NewOutput.
func (j Job) withAttachment(a Attachment) Job {
	j.attached = &a
	return j
}

// body returns the consensus-critical tail bytes for this job's version.
func (j Job) body() []byte {
	if j.useGeneralPurposeBits {
		return BODY_V2
	}
	return BODY_V1
}

// Encode emits the byte-exact Boost locking script for this Job.
func (j Job) Encode() ([]byte, error) {
	var s Script
	s.appendPush(boostMagic)
	s.appendOp(OpDrop)
	if j.IsContract() {
		s.appendPush(j.minerPubKeyHash.Bytes())
	}
	s.appendPush(j.category.Bytes())
	s.appendPush(j.content.Bytes())
	s.appendPush(j.diff.ToCompactBytesLE())
	s.appendPush(j.tag)
	s.appendPush(j.userNonce.Bytes())
	s.appendPush(j.additionalData)

	prefix := s.Bytes()
	return append(prefix, j.body()...), nil
}

// DecodeJob parses a Boost locking script into a Job. Detection: the third
// chunk's push length (chunk[2], 0-indexed) is 4 for bounty form, 20 for
// contract form.
func DecodeJob(raw []byte) (Job, error) {
	s, err := parseScript(raw)
	if err != nil {
		return Job{}, err
	}
	c := s.chunks
	if len(c) < 3 {
		return Job{}, newErrAt(ErrBadScript, "script too short", 0)
	}
	if !bytes.Equal(c[0].pushValue(), boostMagic) {
		return Job{}, newErrAt(ErrBadScript, "missing boostpow marker", 0)
	}
	if c[1].IsPush || c[1].Opcode != OpDrop {
		return Job{}, newErrAt(ErrBadScript, "missing OP_DROP after marker", 1)
	}

	var contract bool
	switch len(c[2].pushValue()) {
	case 4:
		contract = false
	case 20:
		contract = true
	default:
		return Job{}, newErrAt(ErrBadScript, "unrecognized job field at position 2", 2)
	}

	var j Job
	idx := 2
	if contract {
		hashBytes := c[idx].pushValue()
		h, err := Digest20FromBytes(hashBytes)
		if err != nil {
			return Job{}, err
		}
		j.minerPubKeyHash = &h
		idx++
	}

	need := func(n int) error {
		if idx+n > len(c) {
			return newErrAt(ErrBadScript, "script truncated", idx)
		}
		return nil
	}

	if err := need(1); err != nil {
		return Job{}, err
	}
	cat, err := Int32LEFromBytes(c[idx].pushValue())
	if err != nil {
		return Job{}, err
	}
	j.category = cat
	idx++

	if err := need(1); err != nil {
		return Job{}, err
	}
	content, err := Digest32FromBytes(c[idx].pushValue())
	if err != nil {
		return Job{}, err
	}
	j.content = content
	idx++

	if err := need(1); err != nil {
		return Job{}, err
	}
	diff, err := DifficultyFromCompactBytes(c[idx].pushValue())
	if err != nil {
		return Job{}, err
	}
	j.diff = diff
	idx++

	if err := need(1); err != nil {
		return Job{}, err
	}
	tag := c[idx].pushValue()
	if len(tag) > 20 {
		return Job{}, newErrAt(ErrBadLength, "tag must be <= 20 bytes", idx)
	}
	j.tag = append(Bytes(nil), tag...)
	idx++

	if err := need(1); err != nil {
		return Job{}, err
	}
	userNonce, err := UInt32LEFromBytes(c[idx].pushValue())
	if err != nil {
		return Job{}, err
	}
	j.userNonce = userNonce
	idx++

	if err := need(1); err != nil {
		return Job{}, err
	}
	j.additionalData = append(Bytes(nil), c[idx].pushValue()...)
	idx++

	tailStart := idx
	tail := raw[scriptByteOffset(s, tailStart):]
	switch {
	case bytes.Equal(tail, BODY_V1):
		j.useGeneralPurposeBits = false
	case bytes.Equal(tail, BODY_V2):
		j.useGeneralPurposeBits = true
	default:
		return Job{}, newErrAt(ErrBadScript, "script tail does not match BODY_V1 or BODY_V2", tailStart)
	}

	return j, nil
}

// scriptByteOffset returns the raw byte offset at which chunk index idx
// begins, by re-serializing the preceding chunks with minimal-push rules.
// This is valid because Encode always emits minimal pushes; a script
// decoded from non-minimal pushes would not match either BODY_V* tail
// anyway and is rejected by the caller.
func scriptByteOffset(s Script, idx int) int {
	var prefix Script
	prefix.chunks = s.chunks[:idx]
	return len(prefix.Bytes())
}

// ScriptHash returns the stable job identifier: little-endian hex of
// sha256(scriptBytes).
func (j Job) ScriptHash() (string, error) {
	raw, err := j.Encode()
	if err != nil {
		return "", err
	}
	sum := sha256Sum(raw)
	return hex.EncodeToString(sum[:]), nil
}
