package boostpow

import (
	"encoding/binary"
	"encoding/hex"
	"math/big"
)

// createBufferAndPad is the canonical way a user-supplied hex string becomes
// a fixed-width field: it decodes hex, then truncates or right-pads with
// zero bytes to exactly size. Padding is always applied on the right,
// whatever bigEndianDefault says: for a little-endian field that adds
// high-order zero bytes, for a big-endian field low-order ones.
// bigEndianDefault is accepted but not used.
func createBufferAndPad(hexStr string, size int, bigEndianDefault bool) ([]byte, error) {
	raw, err := hex.DecodeString(hexStr)
	if err != nil {
		return nil, wrapErr(ErrBadLength, "invalid hex string", err)
	}
	_ = bigEndianDefault
	out := make([]byte, size)
	if len(raw) >= size {
		copy(out, raw[:size])
		return out, nil
	}
	copy(out, raw)
	return out, nil
}

// Bytes is a variable-length opaque payload. The empty buffer is a legal
// value, distinct from a nil Bytes in Go but equivalent on the wire.
type Bytes []byte

// Hex returns the forward hex encoding of b.
func (b Bytes) Hex() string { return hex.EncodeToString(b) }

// BytesFromHex decodes a hex string into a Bytes value.
func BytesFromHex(s string) (Bytes, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, wrapErr(ErrBadLength, "invalid hex string", err)
	}
	return Bytes(raw), nil
}

// Equal reports whether two Bytes values hold identical content.
func (b Bytes) Equal(o Bytes) bool {
	if len(b) != len(o) {
		return false
	}
	for i := range b {
		if b[i] != o[i] {
			return false
		}
	}
	return true
}

// Int32LE is a 4-byte little-endian signed field.
type Int32LE [4]byte

func NewInt32LE(v int32) Int32LE {
	var out Int32LE
	binary.LittleEndian.PutUint32(out[:], uint32(v))
	return out
}

func Int32LEFromBytes(b []byte) (Int32LE, error) {
	var out Int32LE
	if len(b) != 4 {
		return out, newErrAt(ErrBadLength, "Int32LE requires 4 bytes", 0)
	}
	copy(out[:], b)
	return out, nil
}

func (f Int32LE) Bytes() []byte { return append([]byte(nil), f[:]...) }
func (f Int32LE) Hex() string   { return hex.EncodeToString(f[:]) }
func (f Int32LE) Int32() int32  { return int32(binary.LittleEndian.Uint32(f[:])) }
func (f Int32LE) Equal(o Int32LE) bool { return f == o }

// UInt16LE is a 2-byte little-endian unsigned field, used for the
// "magic number" segment of category.
type UInt16LE [2]byte

func NewUInt16LE(v uint16) UInt16LE {
	var out UInt16LE
	binary.LittleEndian.PutUint16(out[:], v)
	return out
}

func (f UInt16LE) Bytes() []byte    { return append([]byte(nil), f[:]...) }
func (f UInt16LE) Uint16() uint16   { return binary.LittleEndian.Uint16(f[:]) }
func (f UInt16LE) Equal(o UInt16LE) bool { return f == o }

// UInt32LE is a 4-byte little-endian unsigned field.
type UInt32LE [4]byte

func NewUInt32LE(v uint32) UInt32LE {
	var out UInt32LE
	binary.LittleEndian.PutUint32(out[:], v)
	return out
}

func UInt32LEFromBytes(b []byte) (UInt32LE, error) {
	var out UInt32LE
	if len(b) != 4 {
		return out, newErrAt(ErrBadLength, "UInt32LE requires 4 bytes", 0)
	}
	copy(out[:], b)
	return out, nil
}

func UInt32LEFromHex(s string) (UInt32LE, error) {
	raw, err := createBufferAndPad(s, 4, false)
	if err != nil {
		return UInt32LE{}, err
	}
	return UInt32LEFromBytes(raw)
}

func (f UInt32LE) Bytes() []byte      { return append([]byte(nil), f[:]...) }
func (f UInt32LE) Hex() string        { return hex.EncodeToString(f[:]) }
func (f UInt32LE) Uint32() uint32     { return binary.LittleEndian.Uint32(f[:]) }
func (f UInt32LE) Equal(o UInt32LE) bool { return f == o }

// AsBE reinterprets the same numeric value as a big-endian field. Used only
// for endian-sanity checks; the bytes are reversed, the number preserved.
func (f UInt32LE) AsBE() UInt32BE {
	var out UInt32BE
	out[0], out[1], out[2], out[3] = f[3], f[2], f[1], f[0]
	return out
}

// UInt32BE is a 4-byte big-endian unsigned field. It exists solely because
// extra_nonce_1 is big-endian in the metadata preimage (Stratum convention).
type UInt32BE [4]byte

func NewUInt32BE(v uint32) UInt32BE {
	var out UInt32BE
	binary.BigEndian.PutUint32(out[:], v)
	return out
}

func UInt32BEFromBytes(b []byte) (UInt32BE, error) {
	var out UInt32BE
	if len(b) != 4 {
		return out, newErrAt(ErrBadLength, "UInt32BE requires 4 bytes", 0)
	}
	copy(out[:], b)
	return out, nil
}

func UInt32BEFromHex(s string) (UInt32BE, error) {
	raw, err := createBufferAndPad(s, 4, true)
	if err != nil {
		return UInt32BE{}, err
	}
	return UInt32BEFromBytes(raw)
}

func (f UInt32BE) Bytes() []byte      { return append([]byte(nil), f[:]...) }
func (f UInt32BE) Hex() string        { return hex.EncodeToString(f[:]) }
func (f UInt32BE) Uint32() uint32     { return binary.BigEndian.Uint32(f[:]) }
func (f UInt32BE) Equal(o UInt32BE) bool { return f == o }

// AsLE reinterprets the same numeric value as a little-endian field.
func (f UInt32BE) AsLE() UInt32LE {
	var out UInt32LE
	out[0], out[1], out[2], out[3] = f[3], f[2], f[1], f[0]
	return out
}

// Digest20 is a 20-byte RIPEMD160(SHA256(·)) digest.
type Digest20 [20]byte

func Digest20FromBytes(b []byte) (Digest20, error) {
	var out Digest20
	if len(b) != 20 {
		return out, newErrAt(ErrBadLength, "Digest20 requires 20 bytes", 0)
	}
	copy(out[:], b)
	return out, nil
}

func Digest20FromHex(s string) (Digest20, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Digest20{}, wrapErr(ErrBadLength, "invalid hex string", err)
	}
	return Digest20FromBytes(raw)
}

func (d Digest20) Bytes() []byte       { return append([]byte(nil), d[:]...) }
func (d Digest20) Hex() string         { return hex.EncodeToString(d[:]) }
func (d Digest20) Equal(o Digest20) bool { return d == o }

// Digest32 is an exactly-32-byte digest. Hex() is the internal
// little-endian-lexicographic representation; ReversedHex() is the
// external/user-facing Bitcoin convention.
type Digest32 [32]byte

func Digest32FromBytes(b []byte) (Digest32, error) {
	var out Digest32
	if len(b) != 32 {
		return out, newErrAt(ErrBadLength, "Digest32 requires 32 bytes", 0)
	}
	copy(out[:], b)
	return out, nil
}

// Digest32FromHex parses the internal (non-reversed) hex form.
func Digest32FromHex(s string) (Digest32, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Digest32{}, wrapErr(ErrBadLength, "invalid hex string", err)
	}
	return Digest32FromBytes(raw)
}

// Digest32FromReversedHex parses the external, Bitcoin-convention reversed
// hex form.
func Digest32FromReversedHex(s string) (Digest32, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Digest32{}, wrapErr(ErrBadLength, "invalid hex string", err)
	}
	if len(raw) != 32 {
		return Digest32{}, newErrAt(ErrBadLength, "Digest32 requires 32 bytes", 0)
	}
	reverseBytes(raw)
	return Digest32FromBytes(raw)
}

func (d Digest32) Bytes() []byte { return append([]byte(nil), d[:]...) }
func (d Digest32) Hex() string   { return hex.EncodeToString(d[:]) }

// ReversedHex renders d in Bitcoin's user-facing byte-reversed convention.
func (d Digest32) ReversedHex() string {
	rev := append([]byte(nil), d[:]...)
	reverseBytes(rev)
	return hex.EncodeToString(rev)
}

func (d Digest32) Equal(o Digest32) bool { return d == o }

func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// --- Difficulty / compact bits ---

// pdiff1 is Bitcoin's reference "difficulty 1" target:
// 0x00000000FFFF0000000000000000000000000000000000000000000000000000.
var pdiff1 = func() *big.Int {
	n := new(big.Int)
	n.SetString("00000000FFFF0000000000000000000000000000000000000000000000000000", 16)
	return n
}()

// Difficulty is a positive rational, convertible to/from Bitcoin's 4-byte
// compact-bits encoding. It is stored internally as an exact big.Int target;
// float64 is used only at the user-facing boundary (Float/FromFloat).
type Difficulty struct {
	target *big.Int
	bits   uint32 // compact bits it was decoded from; 0 if not decoded
}

// DifficultyFromCompact decodes 4-byte compact bits into a Difficulty.
// bits = (exponent << 24) | mantissa, 1 <= exponent <= 33, mantissa's MSB
// must be 0 (non-negative).
func DifficultyFromCompact(bits uint32) (Difficulty, error) {
	exponent := int(bits >> 24)
	mantissa := int64(bits & 0x007fffff)
	if bits&0x00800000 != 0 {
		return Difficulty{}, newErr(ErrBadTarget, "compact bits mantissa MSB must be zero")
	}
	if exponent < 1 || exponent > 33 {
		return Difficulty{}, newErr(ErrBadTarget, "compact bits exponent out of range [1,33]")
	}
	target := new(big.Int).SetInt64(mantissa)
	shift := (exponent - 3) * 8
	if shift > 0 {
		target.Lsh(target, uint(shift))
	} else if shift < 0 {
		target.Rsh(target, uint(-shift))
	}
	if target.Sign() <= 0 {
		return Difficulty{}, newErr(ErrBadTarget, "compact bits decode to non-positive target")
	}
	return Difficulty{target: target, bits: bits}, nil
}

// DifficultyFromCompactBytes decodes little-endian compact-bits bytes, as
// they appear on the wire in a Boost locking script.
func DifficultyFromCompactBytes(b []byte) (Difficulty, error) {
	u32, err := UInt32LEFromBytes(b)
	if err != nil {
		return Difficulty{}, err
	}
	return DifficultyFromCompact(u32.Uint32())
}

// ToCompact re-encodes the difficulty's exact target as 4-byte compact bits.
// A value produced by DifficultyFromCompact returns the exact bits it was
// decoded from, so non-normalised encodings round-trip too.
func (d Difficulty) ToCompact() uint32 {
	if d.bits != 0 {
		return d.bits
	}
	return bigToCompact(d.target)
}

// ToCompactBytesLE returns the little-endian wire encoding of ToCompact.
func (d Difficulty) ToCompactBytesLE() []byte {
	return NewUInt32LE(d.ToCompact()).Bytes()
}

func bigToCompact(n *big.Int) uint32 {
	if n.Sign() == 0 {
		return 0
	}
	nBytes := n.Bytes() // big-endian, no leading zero byte
	exponent := len(nBytes)
	var mantissa uint32
	if exponent <= 3 {
		mantissa = uint32(n.Int64()) << uint(8*(3-exponent))
	} else {
		// Take the top 3 bytes.
		top := new(big.Int).Rsh(n, uint(8*(exponent-3)))
		mantissa = uint32(top.Int64())
	}
	// If the high bit of the mantissa would be set, it would be
	// interpreted as a sign bit; shift right by 8 and bump the exponent.
	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		exponent++
	}
	return uint32(exponent)<<24 | mantissa
}

// Target returns the exact 256-bit target as a big.Int. The returned value
// is a copy; callers may mutate it freely.
func (d Difficulty) Target() *big.Int {
	return new(big.Int).Set(d.target)
}

// Float returns difficulty = pdiff1 / target as a float64, for display only.
func (d Difficulty) Float() float64 {
	if d.target == nil || d.target.Sign() <= 0 {
		return 0
	}
	q := new(big.Rat).SetFrac(pdiff1, d.target)
	f, _ := q.Float64()
	return f
}

// DifficultyFromTarget wraps an exact target big.Int as a Difficulty.
func DifficultyFromTarget(target *big.Int) (Difficulty, error) {
	if target.Sign() <= 0 {
		return Difficulty{}, newErr(ErrBadTarget, "target must be positive")
	}
	return Difficulty{target: new(big.Int).Set(target)}, nil
}

// DifficultyFromFloat derives an exact target from a display difficulty:
// target = pdiff1 / difficulty, floored to the nearest integer.
func DifficultyFromFloat(difficulty float64) (Difficulty, error) {
	if difficulty <= 0 {
		return Difficulty{}, newErr(ErrBadTarget, "difficulty must be positive")
	}
	diffRat := new(big.Rat).SetFloat64(difficulty)
	if diffRat == nil {
		return Difficulty{}, newErr(ErrBadTarget, "difficulty is not a finite number")
	}
	targetRat := new(big.Rat).Quo(new(big.Rat).SetInt(pdiff1), diffRat)
	target := new(big.Int).Quo(targetRat.Num(), targetRat.Denom())
	return DifficultyFromTarget(target)
}
