package boostpow

import (
	stdsha "crypto/sha256"

	simdsha "github.com/minio/sha256-simd"
	"golang.org/x/crypto/ripemd160"
)

// sha256SumFunc matches the signature of crypto/sha256.Sum256, letting the
// implementation swap in a SIMD-accelerated variant without touching call
// sites.
type sha256SumFunc func([]byte) [32]byte

var sha256Sum sha256SumFunc = stdsha.Sum256

// UseSIMDSHA256 switches the package's sha256 implementation between the
// standard library and minio/sha256-simd. It affects every sha256d/hash160
// call made afterwards; it is not safe to call concurrently with hashing.
func UseSIMDSHA256(useSimd bool) {
	if useSimd {
		sha256Sum = simdsha.Sum256
		return
	}
	sha256Sum = stdsha.Sum256
}

// sha256d computes SHA256(SHA256(data)), Bitcoin's standard double hash.
func sha256d(data []byte) [32]byte {
	first := sha256Sum(data)
	return sha256Sum(first[:])
}

// hash160 computes RIPEMD160(SHA256(data)), Bitcoin's pubkey-hash function.
func hash160(data []byte) [20]byte {
	first := sha256Sum(data)
	h := ripemd160.New()
	h.Write(first[:])
	sum := h.Sum(nil)
	var out [20]byte
	copy(out[:], sum)
	return out
}
