// Package matcher pairs reference documents with printer proofs by the code
// prefix of their filenames.
package matcher

import "path/filepath"

// CodeLength is the fixed code prefix length. Codes are compared
// case-sensitively with no separator normalization.
const CodeLength = 8

// Code extracts the pairing code from a file name or path: the first
// CodeLength characters of the base name, or the whole base name if shorter.
func Code(name string) string {
	base := filepath.Base(name)
	runes := []rune(base)
	if len(runes) <= CodeLength {
		return base
	}
	return string(runes[:CodeLength])
}

// Pair couples a reference file with a proof file sharing a code. Either side
// may be empty for singleton pairs.
type Pair struct {
	Code      string
	Reference string
	Proof     string
}

func (p Pair) Matched() bool       { return p.Reference != "" && p.Proof != "" }
func (p Pair) ReferenceOnly() bool { return p.Reference != "" && p.Proof == "" }
func (p Pair) ProofOnly() bool     { return p.Reference == "" && p.Proof != "" }

// Match pairs the two name collections. References are walked in order and
// each takes the first unconsumed proof with an equal code; unmatched
// references become reference-only pairs. Leftover proofs follow in their
// original order as proof-only pairs.
//
// Duplicate codes on one side are intentional first-match-wins: the second
// same-code file ends up as its own singleton pair rather than being dropped.
// Every input name appears in exactly one pair, and identical inputs always
// produce the identical ordered pair list.
func Match(references, proofs []string) []Pair {
	consumed := make([]bool, len(proofs))
	pairs := make([]Pair, 0, len(references)+len(proofs))

	for _, ref := range references {
		code := Code(ref)
		pair := Pair{Code: code, Reference: ref}
		for i, proof := range proofs {
			if consumed[i] {
				continue
			}
			if Code(proof) == code {
				pair.Proof = proof
				consumed[i] = true
				break
			}
		}
		pairs = append(pairs, pair)
	}

	for i, proof := range proofs {
		if !consumed[i] {
			pairs = append(pairs, Pair{Code: Code(proof), Proof: proof})
		}
	}

	return pairs
}
