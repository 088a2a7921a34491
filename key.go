package boostpow

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/base58"
)

// mainnetP2PKHVersion is the version byte prepended before base58check
// encoding a P2PKH address. The core codec does not otherwise depend on
// network parameters (per §1, generic address/WIF routines are out of
// scope); this is only used to render a human-displayable address from a
// pubkey hash for callers that want one.
const mainnetP2PKHVersion = 0x00

// Key wraps a secp256k1 private key. It is held only by Claim, passed by
// value into signing, and must be zeroed via Zero() once no longer needed.
type Key struct {
	priv *btcec.PrivateKey
}

// KeyFromBytes parses a 32-byte secp256k1 private key.
func KeyFromBytes(b []byte) (Key, error) {
	if len(b) != 32 {
		return Key{}, newErr(ErrBadLength, "private key must be 32 bytes")
	}
	priv, pub := btcec.PrivKeyFromBytes(b)
	_ = pub
	return Key{priv: priv}, nil
}

// PublicKeyCompressed returns the 33-byte compressed public key.
func (k Key) PublicKeyCompressed() Bytes {
	return Bytes(k.priv.PubKey().SerializeCompressed())
}

// PublicKeyUncompressed returns the 65-byte uncompressed public key.
func (k Key) PublicKeyUncompressed() Bytes {
	return Bytes(k.priv.PubKey().SerializeUncompressed())
}

// PubKeyHash returns hash160(compressed pubkey), the value Boost commits
// to as minerPubKeyHash.
func (k Key) PubKeyHash() Digest20 {
	return hash160(k.PublicKeyCompressed())
}

// Address renders PubKeyHash as a base58check P2PKH address. This is the
// one address-formatting routine this package owns; general address/WIF
// parsing is out of scope (§1) and left to the bundled BSV utility library.
func (k Key) Address() string {
	hash := k.PubKeyHash()
	return base58.CheckEncode(hash.Bytes(), mainnetP2PKHVersion)
}

// Zero overwrites the key's sensitive material. Callers that hold a Key
// past its useful lifetime should call Zero explicitly; Go has no
// destructors to do this automatically.
func (k *Key) Zero() {
	if k.priv == nil {
		return
	}
	k.priv.Zero()
}

func (k Key) raw() *btcec.PrivateKey { return k.priv }
