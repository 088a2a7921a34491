package boostpow

import (
	"bytes"
	"encoding/binary"
)

const defaultSequence uint32 = 0xffffffff

// writeVarInt writes n using Bitcoin's variable-length integer encoding:
// 1 byte if <0xfd, else 0xfd+u16le / 0xfe+u32le / 0xff+u64le.
func writeVarInt(buf *bytes.Buffer, n uint64) {
	switch {
	case n < 0xfd:
		buf.WriteByte(byte(n))
	case n <= 0xffff:
		buf.WriteByte(0xfd)
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(n))
		buf.Write(b[:])
	case n <= 0xffffffff:
		buf.WriteByte(0xfe)
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(n))
		buf.Write(b[:])
	default:
		buf.WriteByte(0xff)
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], n)
		buf.Write(b[:])
	}
}

func varIntSize(n uint64) int {
	switch {
	case n < 0xfd:
		return 1
	case n <= 0xffff:
		return 3
	case n <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

func readVarInt(raw []byte, off int) (uint64, int, error) {
	if off >= len(raw) {
		return 0, off, newErrAt(ErrBadLength, "varint truncated", off)
	}
	first := raw[off]
	switch {
	case first < 0xfd:
		return uint64(first), off + 1, nil
	case first == 0xfd:
		if off+3 > len(raw) {
			return 0, off, newErrAt(ErrBadLength, "varint truncated", off)
		}
		return uint64(binary.LittleEndian.Uint16(raw[off+1 : off+3])), off + 3, nil
	case first == 0xfe:
		if off+5 > len(raw) {
			return 0, off, newErrAt(ErrBadLength, "varint truncated", off)
		}
		return uint64(binary.LittleEndian.Uint32(raw[off+1 : off+5])), off + 5, nil
	default:
		if off+9 > len(raw) {
			return 0, off, newErrAt(ErrBadLength, "varint truncated", off)
		}
		return binary.LittleEndian.Uint64(raw[off+1 : off+9]), off + 9, nil
	}
}

func writeUint32LE(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeUint64LE(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

// TxOutPoint identifies the previous output an input spends.
type TxOutPoint struct {
	TxID Digest32 // display byte order; reversed on the wire
	Vout uint32
}

// TxOutput is a complete transaction output: always concrete, never a
// size placeholder.
type TxOutput struct {
	Satoshis uint64
	Script   Bytes
}

// TxInput is a transaction input. Either Script is concrete (complete tx)
// or ScriptSize carries a placeholder length (incomplete tx), never both
// meaningfully at once; Script takes precedence when non-nil.
type TxInput struct {
	Prevout    TxOutPoint
	Script     Bytes // nil for a size placeholder
	ScriptSize uint64
	Sequence   uint32
}

func (in TxInput) scriptLen() uint64 {
	if in.Script != nil {
		return uint64(len(in.Script))
	}
	return in.ScriptSize
}

// Tx is a standard Bitcoin transaction shape. When every input carries a
// concrete Script it serializes as a complete transaction; when any input
// instead carries only a ScriptSize placeholder, it serializes as an
// "incomplete" transaction used for fee estimation before signing.
type Tx struct {
	Version  uint32
	Inputs   []TxInput
	Outputs  []TxOutput
	Locktime uint32
}

// EstimateSize computes the incomplete-transaction size estimate:
//
//	8 + varInt(inputs) + varInt(outputs)
//	  + Σ (40 + varInt(sᵢ) + sᵢ) over inputs
//	  + Σ (8 + varInt(sⱼ) + sⱼ) over outputs
func (tx Tx) EstimateSize() uint64 {
	size := uint64(8)
	size += uint64(varIntSize(uint64(len(tx.Inputs))))
	size += uint64(varIntSize(uint64(len(tx.Outputs))))
	for _, in := range tx.Inputs {
		s := in.scriptLen()
		size += 40 + uint64(varIntSize(s)) + s
	}
	for _, out := range tx.Outputs {
		s := uint64(len(out.Script))
		size += 8 + uint64(varIntSize(s)) + s
	}
	return size
}

// Serialize writes the transaction's wire encoding. Inputs without a
// concrete Script are serialized with scriptSig length set to ScriptSize
// and zero-filled placeholder bytes; this is only meaningful for size
// accounting, never for broadcast.
func (tx Tx) Serialize() []byte {
	var buf bytes.Buffer
	writeUint32LE(&buf, tx.Version)

	writeVarInt(&buf, uint64(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		txid := in.Prevout.TxID.Bytes()
		reverseBytes(txid) // on-wire byte order is the reverse of display order
		buf.Write(txid)
		writeUint32LE(&buf, in.Prevout.Vout)

		script := in.Script
		if script == nil {
			script = make(Bytes, in.ScriptSize)
		}
		writeVarInt(&buf, uint64(len(script)))
		buf.Write(script)

		seq := in.Sequence
		if seq == 0 {
			seq = defaultSequence
		}
		writeUint32LE(&buf, seq)
	}

	writeVarInt(&buf, uint64(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		writeUint64LE(&buf, out.Satoshis)
		writeVarInt(&buf, uint64(len(out.Script)))
		buf.Write(out.Script)
	}

	writeUint32LE(&buf, tx.Locktime)
	return buf.Bytes()
}

// DecodeTx parses a complete transaction's wire encoding.
func DecodeTx(raw []byte) (Tx, error) {
	var tx Tx
	off := 0
	if off+4 > len(raw) {
		return Tx{}, newErrAt(ErrBadLength, "tx truncated at version", off)
	}
	tx.Version = binary.LittleEndian.Uint32(raw[off : off+4])
	off += 4

	nIn, off2, err := readVarInt(raw, off)
	if err != nil {
		return Tx{}, err
	}
	off = off2
	tx.Inputs = make([]TxInput, nIn)
	for i := range tx.Inputs {
		if off+36 > len(raw) {
			return Tx{}, newErrAt(ErrBadLength, "tx truncated at input", off)
		}
		txidBytes := append([]byte(nil), raw[off:off+32]...)
		reverseBytes(txidBytes)
		txid, err := Digest32FromBytes(txidBytes)
		if err != nil {
			return Tx{}, err
		}
		off += 32
		vout := binary.LittleEndian.Uint32(raw[off : off+4])
		off += 4

		scriptLen, off3, err := readVarInt(raw, off)
		if err != nil {
			return Tx{}, err
		}
		off = off3
		if off+int(scriptLen) > len(raw) {
			return Tx{}, newErrAt(ErrBadLength, "tx truncated at input script", off)
		}
		script := append(Bytes(nil), raw[off:off+int(scriptLen)]...)
		off += int(scriptLen)

		if off+4 > len(raw) {
			return Tx{}, newErrAt(ErrBadLength, "tx truncated at sequence", off)
		}
		seq := binary.LittleEndian.Uint32(raw[off : off+4])
		off += 4

		tx.Inputs[i] = TxInput{
			Prevout:  TxOutPoint{TxID: txid, Vout: vout},
			Script:   script,
			Sequence: seq,
		}
	}

	nOut, off4, err := readVarInt(raw, off)
	if err != nil {
		return Tx{}, err
	}
	off = off4
	tx.Outputs = make([]TxOutput, nOut)
	for i := range tx.Outputs {
		if off+8 > len(raw) {
			return Tx{}, newErrAt(ErrBadLength, "tx truncated at output value", off)
		}
		sats := binary.LittleEndian.Uint64(raw[off : off+8])
		off += 8
		scriptLen, off5, err := readVarInt(raw, off)
		if err != nil {
			return Tx{}, err
		}
		off = off5
		if off+int(scriptLen) > len(raw) {
			return Tx{}, newErrAt(ErrBadLength, "tx truncated at output script", off)
		}
		script := append(Bytes(nil), raw[off:off+int(scriptLen)]...)
		off += int(scriptLen)
		tx.Outputs[i] = TxOutput{Satoshis: sats, Script: script}
	}

	if off+4 > len(raw) {
		return Tx{}, newErrAt(ErrBadLength, "tx truncated at locktime", off)
	}
	tx.Locktime = binary.LittleEndian.Uint32(raw[off : off+4])
	return tx, nil
}
