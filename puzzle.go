package boostpow

import (
	"math/big"
)

// gprMaskBytes is the ASICBoost general-purpose-bits mask, little-endian
// on the wire: 0xe0001fff, bytes ff1f00e0. Per spec §9 this exact byte
// constant is ground truth; it must not be derived from source comments.
var gprMaskBytes = [4]byte{0xff, 0x1f, 0x00, 0xe0}

func gprMaskUint32() uint32 {
	return uint32(gprMaskBytes[0]) | uint32(gprMaskBytes[1])<<8 | uint32(gprMaskBytes[2])<<16 | uint32(gprMaskBytes[3])<<24
}

// Puzzle is the work-level representation of a Boost job: the fields a
// solution is checked against, independent of how the job was encoded.
// metaBegin = tag ∥ minerPubKeyHash/address; metaEnd = userNonce ∥
// additionalData.
type Puzzle struct {
	category   Int32LE
	content    Digest32
	difficulty Difficulty
	metaBegin  Bytes
	metaEnd    Bytes
	mask       *Int32LE
}

// NewPuzzleFromJob builds a Puzzle from a Job. For a bounty job, address
// must be supplied (the miner's chosen pubkey hash); it must be omitted
// (nil) for a contract job, whose metaBegin instead uses the job's own
// committed minerPubKeyHash.
func NewPuzzleFromJob(j Job, address *Digest20) (Puzzle, error) {
	var minerHash Digest20
	switch {
	case j.IsContract():
		if address != nil {
			return Puzzle{}, newErr(ErrInvalidPuzzle, "address must not be supplied for a contract job")
		}
		minerHash = *j.minerPubKeyHash
	default:
		if address == nil {
			return Puzzle{}, newErr(ErrInvalidPuzzle, "address must be supplied for a bounty job")
		}
		minerHash = *address
	}

	metaBegin := append(append(Bytes(nil), j.tag...), minerHash.Bytes()...)
	metaEnd := append(append(Bytes(nil), j.userNonce.Bytes()...), j.additionalData...)

	p := Puzzle{
		category:   j.category,
		content:    j.content,
		difficulty: j.diff,
		metaBegin:  metaBegin,
		metaEnd:    metaEnd,
	}
	if j.useGeneralPurposeBits {
		m := NewInt32LE(int32(gprMaskUint32()))
		p.mask = &m
	}
	return p, nil
}

func (p Puzzle) Category() Int32LE     { return p.category }
func (p Puzzle) Content() Digest32     { return p.content }
func (p Puzzle) Difficulty() Difficulty { return p.difficulty }
func (p Puzzle) MetaBegin() Bytes      { return append(Bytes(nil), p.metaBegin...) }
func (p Puzzle) MetaEnd() Bytes        { return append(Bytes(nil), p.metaEnd...) }

// Mask returns the ASICBoost version mask, or nil for a non-ASICBoost
// puzzle.
func (p Puzzle) Mask() *Int32LE {
	if p.mask == nil {
		return nil
	}
	m := *p.mask
	return &m
}

// PowString is the 80-byte block-header-shaped buffer Boost assembles from
// a Puzzle and a Solution: version(4) prevBlock(32) merkleRoot(32) time(4)
// bits(4) nonce(4). In Boost, prevBlock carries content and merkleRoot
// carries the metadata hash.
type PowString [80]byte

// metaHash returns sha256d(metaBegin ∥ extraNonce1.BE ∥ extraNonce2 ∥ metaEnd).
func metaHash(metaBegin Bytes, extraNonce1 UInt32BE, extraNonce2 Bytes, metaEnd Bytes) [32]byte {
	var buf []byte
	buf = append(buf, metaBegin...)
	buf = append(buf, extraNonce1.Bytes()...)
	buf = append(buf, extraNonce2...)
	buf = append(buf, metaEnd...)
	return sha256d(buf)
}

// versionWord computes the PowString's version field per spec §4.E.1: the
// bare category if neither mask nor gpr is present, or the masked
// combination if both are. Any other pairing is invalid.
func versionWord(category Int32LE, mask *Int32LE, gpr *Int32LE) (Int32LE, error) {
	switch {
	case mask == nil && gpr == nil:
		return category, nil
	case mask != nil && gpr != nil:
		m := mask.Int32()
		combined := (category.Int32() & m) | (gpr.Int32() &^ m)
		return NewInt32LE(combined), nil
	default:
		return Int32LE{}, newErr(ErrBadSolution, "puzzle.mask and solution.generalPurposeBits must both be present or both absent")
	}
}

// BuildPowString assembles the synthetic 80-byte header for (p, sol).
func BuildPowString(p Puzzle, sol Solution) (PowString, error) {
	version, err := versionWord(p.category, p.mask, sol.generalPurposeBits)
	if err != nil {
		return PowString{}, err
	}
	root := metaHash(p.metaBegin, sol.extraNonce1, sol.extraNonce2, p.metaEnd)

	var out PowString
	off := 0
	copy(out[off:], version.Bytes())
	off += 4
	copy(out[off:], p.content.Bytes())
	off += 32
	copy(out[off:], root[:])
	off += 32
	copy(out[off:], sol.time.Bytes())
	off += 4
	copy(out[off:], p.difficulty.ToCompactBytesLE())
	off += 4
	copy(out[off:], sol.nonce.Bytes())
	return out, nil
}

// Bytes returns the 80 raw header bytes.
func (h PowString) Bytes() []byte { return append([]byte(nil), h[:]...) }

// Hash returns sha256d(header) interpreted as a little-endian 256-bit
// integer, the value compared against the target for validity.
func (h PowString) Hash() *big.Int {
	sum := sha256d(h[:])
	reversed := append([]byte(nil), sum[:]...)
	reverseBytes(reversed)
	return new(big.Int).SetBytes(reversed)
}

// Valid reports whether this header's double-SHA-256, read as a
// little-endian 256-bit integer, is strictly less than the target decoded
// from the header's own bits field.
func (h PowString) Valid() (bool, error) {
	bitsField, err := UInt32LEFromBytes(h[76:80])
	if err != nil {
		return false, err
	}
	diff, err := DifficultyFromCompact(bitsField.Uint32())
	if err != nil {
		return false, err
	}
	return h.Hash().Cmp(diff.Target()) < 0, nil
}

// Verify builds the PowString for (p, sol) and reports whether it
// satisfies the puzzle's proof of work, returning ErrInvalidProof if not.
func Verify(p Puzzle, sol Solution) error {
	header, err := BuildPowString(p, sol)
	if err != nil {
		return err
	}
	ok, err := header.Valid()
	if err != nil {
		return err
	}
	if !ok {
		return newErr(ErrInvalidProof, "hash(header) >= target")
	}
	return nil
}
