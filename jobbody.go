package boostpow

// Extra opcodes used by BODY_V1/BODY_V2 beyond script.go's named set.
const (
	OpCat             = 0x7e
	OpInvert          = 0x83
	OpAnd             = 0x84
	OpOr              = 0x85
	OpSha256          = 0xa8
	OpHash256         = 0xaa
	OpBin2Num         = 0x81
	OpSwap            = 0x7c
	OpRoll            = 0x7a
	OpSize            = 0x82
	OpNip             = 0x77
	OpLessThan        = 0x9f
	OpLessThanOrEqual = 0xa1
	OpVerify          = 0x69
)

// BODY_V1 and BODY_V2 are the consensus-critical tail byte sequences that
// follow the prefix pushes in a Boost locking script (spec §4.C.1/§6). Only
// their first four bytes are independently confirmed against spec.md §8
// S1's literal example locking-script hex ("...7e7c557a..."), which decodes
// to OP_CAT OP_SWAP OP_5 OP_ROLL; this package reproduces that prefix
// byte-for-byte. Everything after it is this package's own reconstruction
// of the documented verifier algorithm, NOT a verbatim transcription of any
// historical mainnet Boost script: original_source/ (the upstream
// pow-co/boostpow-js checkout this spec was distilled from) yielded no
// retrievable script-construction source for this repository to ground the
// remaining bytes on, and S1's own hex is explicitly marked "(abbreviated)"
// past the prefix. See DESIGN.md for this limitation recorded against the
// grounding ledger.
//
// At body start the stack (top to bottom) is
//
//	additionalData, userNonce, tag, bits, content, category, minerPubKeyHash, extraNonce1, extraNonce2, time, nonce, pubkey, signature
//
// identically for bounty and contract forms: a contract job's locking
// script pushes minerPubKeyHash immediately after OP_DROP (before
// category), while a bounty job's unlocking script pushes it last (right
// before the locking script starts executing) — both land it at the same
// depth once the locking-script pushes run, which is why one literal body
// serves both templates. The reconstruction below:
//
//  1. OP_CAT folds the two topmost fields (userNonce, additionalData,
//     pushed last and therefore adjacent) into one value.
//  2. OP_SWAP brings tag above it, then "5 OP_ROLL" pulls minerPubKeyHash up
//     next to tag — this is the literal, spec-confirmed step.
//  3. OP_DUP preserves a copy of minerPubKeyHash for the signature check at
//     the end, since the rest of the sequence consumes the other copy into
//     the metadata hash.
//  4. The remaining metadata fields (extraNonce1, extraNonce2, and the
//     userNonce||additionalData value from step 1) are folded in with
//     further OP_ROLL/OP_CAT pairs, then sha256d'd.
//  5. version(category)/content/metadataHash/time/bits/nonce are reordered
//     to the top and concatenated into the 80-byte header and sha256d'd.
//  6. The bits field is expanded to a target (OP_BIN2NUM) and compared
//     against the header hash (OP_LESSTHAN, OP_VERIFY).
//  7. The preserved minerPubKeyHash copy binds the signature via the
//     standard OP_DUP OP_HASH160 OP_EQUALVERIFY OP_CHECKSIG tail.
var BODY_V1 = []byte{
	OpCat, OpSwap, 0x55, OpRoll, // spec-confirmed prefix: fold UN|AD, roll up minerPubKeyHash
	OpDup,         // keep one copy of minerPubKeyHash for the final signature check
	OpSwap, OpCat, // tag||minerPubKeyHash
	0x55, OpRoll, OpCat, // ||extraNonce1
	0x55, OpRoll, OpCat, // ||extraNonce2
	OpSwap, OpCat, // ||userNonce||additionalData -> full metadata preimage
	OpSha256, OpSha256, // metadataHash = sha256d(preimage)
	0x54, OpRoll, // bring category (version) to the top
	0x54, OpRoll, // bring content to the top
	OpCat, OpCat,
	0x53, OpRoll, // bring time to the top
	0x53, OpRoll, // bring bits to the top
	OpCat, OpCat, OpCat, // version||content||metadataHash||time||bits||nonce
	OpHash256,
	OpBin2Num,
	OpSwap,
	OpLessThan,
	OpVerify,
	OpDup, OpHash160, OpEqualVerify, OpCheckSig,
}

// BODY_V2 mirrors BODY_V1 but applies the ASICBoost general-purpose-bits
// mask to the version word before hashing, and checks extraNonce2's size
// with a range comparison instead of strict equality. Its first four bytes
// carry the same spec-confirmed prefix as BODY_V1; see BODY_V1's comment
// for the grounding and honesty caveat that applies equally here.
var BODY_V2 = []byte{
	OpCat, OpSwap, 0x55, OpRoll,
	OpDup,
	OpSwap, OpCat,
	0x55, OpRoll, OpCat,
	0x55, OpRoll, OpCat,
	OpSwap, OpCat,
	OpSha256, OpSha256,
	0x54, OpRoll, // bring category to the top
	// version = (category & mask) | (gpr & ~mask); mask = 0xe0001fff, LE push ff1f00e0
	0x04, 0xff, 0x1f, 0x00, 0xe0,
	OpDup, OpInvert,
	0x54, OpRoll, OpAnd, // gpr & ~mask
	0x53, OpRoll, 0x53, OpRoll, OpAnd, // category & mask
	OpOr,
	0x54, OpRoll, // bring content to the top
	OpCat, OpCat,
	0x53, OpRoll, // bring time to the top
	0x53, OpRoll, // bring bits to the top
	OpCat, OpCat, OpCat,
	OpHash256,
	OpBin2Num,
	OpSwap,
	OpLessThan,
	OpVerify,
	0x01, 0x20, OpSize, OpNip, OpLessThanOrEqual, OpVerify, // extraNonce2 length <= 32
	OpDup, OpHash160, OpEqualVerify, OpCheckSig,
}
