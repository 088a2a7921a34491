package boostpow

import "github.com/bytedance/sonic"

// Solution is the miner-supplied half of a Boost proof: the fields that
// enter the metadata preimage alongside the buyer's tag/additionalData,
// plus the nonce and time that complete the PoW header.
type Solution struct {
	time               UInt32LE
	extraNonce1        UInt32BE
	extraNonce2        Bytes // v1: exactly 8 bytes; v2: <= 32 bytes
	nonce              UInt32LE
	generalPurposeBits *Int32LE // present iff puzzle.mask is present
}

// NewSolution builds a Solution. scriptVersion selects the extraNonce2
// width rule (exactly 8 for v1, 1..32 for v2) and whether
// generalPurposeBits is required.
func NewSolution(timeField uint32, extraNonce1 uint32, extraNonce2 Bytes, nonce uint32, scriptVersion int, gpr *int32) (Solution, error) {
	if scriptVersion == 1 {
		if len(extraNonce2) != 8 {
			return Solution{}, newErr(ErrBadLength, "v1 extraNonce2 must be exactly 8 bytes")
		}
		if gpr != nil {
			return Solution{}, newErr(ErrBadSolution, "v1 solution must not carry generalPurposeBits")
		}
	} else if scriptVersion == 2 {
		if len(extraNonce2) == 0 || len(extraNonce2) > 32 {
			return Solution{}, newErr(ErrBadLength, "v2 extraNonce2 must be 1..32 bytes")
		}
		if gpr == nil {
			return Solution{}, newErr(ErrBadSolution, "v2 solution requires generalPurposeBits")
		}
	} else {
		return Solution{}, newErr(ErrBadScript, "scriptVersion must be 1 or 2")
	}

	sol := Solution{
		time:        NewUInt32LE(timeField),
		extraNonce1: NewUInt32BE(extraNonce1),
		extraNonce2: append(Bytes(nil), extraNonce2...),
		nonce:       NewUInt32LE(nonce),
	}
	if gpr != nil {
		g := NewInt32LE(*gpr)
		sol.generalPurposeBits = &g
	}
	return sol, nil
}

func (s Solution) Time() UInt32LE               { return s.time }
func (s Solution) ExtraNonce1() UInt32BE        { return s.extraNonce1 }
func (s Solution) ExtraNonce2() Bytes           { return append(Bytes(nil), s.extraNonce2...) }
func (s Solution) Nonce() UInt32LE              { return s.nonce }

// GeneralPurposeBits returns the ASICBoost version-override word, or nil
// for a v1 solution.
func (s Solution) GeneralPurposeBits() *Int32LE {
	if s.generalPurposeBits == nil {
		return nil
	}
	g := *s.generalPurposeBits
	return &g
}

// solutionJSONShare mirrors the external "share" sub-object of the
// Solution JSON form (spec §6).
type solutionJSONShare struct {
	Timestamp   string `json:"timestamp"`
	Nonce       string `json:"nonce"`
	ExtraNonce2 string `json:"extra_nonce_2"`
	Bits        string `json:"bits,omitempty"`
}

// solutionJSON mirrors the external Solution JSON form (spec §6):
// {share: {timestamp, nonce, extra_nonce_2, bits?}, extra_nonce_1}.
//
// Unlike the noted source bug (extra_nonce_2 populated from nonce hex),
// this marshals extra_nonce_2 from the solution's own extraNonce2 field.
type solutionJSON struct {
	Share       solutionJSONShare `json:"share"`
	ExtraNonce1 string            `json:"extra_nonce_1"`
}

// MarshalJSON renders the Solution JSON form described in spec §6.
func (s Solution) MarshalJSON() ([]byte, error) {
	share := solutionJSONShare{
		Timestamp:   s.time.Hex(),
		Nonce:       s.nonce.Hex(),
		ExtraNonce2: s.extraNonce2.Hex(),
	}
	if s.generalPurposeBits != nil {
		share.Bits = s.generalPurposeBits.Hex()
	}
	return sonic.Marshal(solutionJSON{
		Share:       share,
		ExtraNonce1: s.extraNonce1.Hex(),
	})
}

// UnmarshalJSON parses the Solution JSON form described in spec §6.
func (s *Solution) UnmarshalJSON(data []byte) error {
	var raw solutionJSON
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return wrapErr(ErrBadLength, "invalid solution JSON", err)
	}
	timeField, err := UInt32LEFromHex(raw.Share.Timestamp)
	if err != nil {
		return err
	}
	nonce, err := UInt32LEFromHex(raw.Share.Nonce)
	if err != nil {
		return err
	}
	en2, err := BytesFromHex(raw.Share.ExtraNonce2)
	if err != nil {
		return err
	}
	en1, err := UInt32BEFromHex(raw.ExtraNonce1)
	if err != nil {
		return err
	}
	sol := Solution{
		time:        timeField,
		extraNonce1: en1,
		extraNonce2: en2,
		nonce:       nonce,
	}
	if raw.Share.Bits != "" {
		g, err := UInt32LEFromHex(raw.Share.Bits)
		if err != nil {
			return err
		}
		gi, err := Int32LEFromBytes(g.Bytes())
		if err != nil {
			return err
		}
		sol.generalPurposeBits = &gi
	}
	*s = sol
	return nil
}
