package matcher

import (
	"reflect"
	"testing"
)

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"A1234567_proof.pdf", "A1234567"},
		{"A1234567", "A1234567"},
		{"A123", "A123"},
		{"", ""},
		{"/orders/in/A1234567_v2.pdf", "A1234567"},
		{"a1234567_x.pdf", "a1234567"}, // case matters, no normalization
		{"ZX-99_01_final.tif", "ZX-99_01"},
	}
	for _, tt := range tests {
		if got := Code(tt.name); got != tt.want {
			t.Errorf("Code(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestMatchBasic(t *testing.T) {
	refs := []string{"A1234567_ref.pdf", "B7654321_ref.pdf"}
	proofs := []string{"B7654321_proof.pdf", "A1234567_proof.pdf"}

	got := Match(refs, proofs)
	want := []Pair{
		{Code: "A1234567", Reference: "A1234567_ref.pdf", Proof: "A1234567_proof.pdf"},
		{Code: "B7654321", Reference: "B7654321_ref.pdf", Proof: "B7654321_proof.pdf"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Match = %+v, want %+v", got, want)
	}
}

func TestMatchFirstMatchWins(t *testing.T) {
	// Two proofs share a code: the first reference takes the first proof in
	// input order, the second proof survives as a proof-only singleton.
	refs := []string{"A1234567_ref.pdf"}
	proofs := []string{"A1234567_v1.pdf", "A1234567_v2.pdf"}

	got := Match(refs, proofs)
	want := []Pair{
		{Code: "A1234567", Reference: "A1234567_ref.pdf", Proof: "A1234567_v1.pdf"},
		{Code: "A1234567", Proof: "A1234567_v2.pdf"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Match = %+v, want %+v", got, want)
	}
}

func TestMatchSingletons(t *testing.T) {
	refs := []string{"A1234567_ref.pdf", "C0000001_ref.pdf"}
	proofs := []string{"B7654321_proof.pdf", "A1234567_proof.pdf"}

	got := Match(refs, proofs)
	want := []Pair{
		{Code: "A1234567", Reference: "A1234567_ref.pdf", Proof: "A1234567_proof.pdf"},
		{Code: "C0000001", Reference: "C0000001_ref.pdf"},
		{Code: "B7654321", Proof: "B7654321_proof.pdf"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Match = %+v, want %+v", got, want)
	}
}

// Every input file must appear in exactly one pair, and the same inputs must
// always yield the same ordered result.
func TestMatchCoverageAndDeterminism(t *testing.T) {
	refs := []string{"A1234567_a.pdf", "A1234567_b.pdf", "B0000001.pdf", "short.pdf"}
	proofs := []string{"B0000001_p.pdf", "A1234567_p.pdf", "D9999999.pdf"}

	first := Match(refs, proofs)
	second := Match(refs, proofs)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("Match is not deterministic for identical inputs")
	}

	seen := make(map[string]int)
	for _, p := range first {
		if p.Reference != "" {
			seen[p.Reference]++
		}
		if p.Proof != "" {
			seen[p.Proof]++
		}
	}
	for _, name := range append(append([]string{}, refs...), proofs...) {
		if seen[name] != 1 {
			t.Errorf("%s appears %d times in the pairing, want exactly 1", name, seen[name])
		}
	}

	// 4 reference pairs (two matched) plus one leftover proof.
	if len(first) != 5 {
		t.Errorf("got %d pairs, want 5", len(first))
	}
}

func TestMatchEmptyInputs(t *testing.T) {
	if got := Match(nil, nil); len(got) != 0 {
		t.Errorf("Match(nil, nil) = %+v, want empty", got)
	}

	got := Match(nil, []string{"A1234567.pdf"})
	if len(got) != 1 || !got[0].ProofOnly() {
		t.Errorf("proof-only input gave %+v", got)
	}
}
