package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ivlev/proofcheck/internal/session"
	"github.com/ivlev/proofcheck/internal/validate"
)

func score(v float64) *float64 { return &v }

func TestWriteCSV(t *testing.T) {
	now := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
	pairs := []session.PairView{
		{
			Code:          "A1234567",
			ReferenceName: "A1234567_ref.pdf",
			ProofName:     "A1234567_proof.pdf",
			Status:        validate.PairApproved,
			Similarity:    score(97.25),
			Comment:       "auto-approved at 97.3%",
		},
		{
			Code:          "B7654321",
			ReferenceName: "B7654321_ref.pdf",
			Status:        validate.PairPending,
		},
		{
			Code:      "C1111111",
			ProofName: "C1111111_proof.pdf",
			Status:    validate.PairRejected,
			Comment:   "missing reference",
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, pairs, now); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"Code;Filename;Matching;Similarity;Validation;Comment;Date",
		"A1234567;A1234567_ref.pdf;Both files;97.2%;approved;auto-approved at 97.3%;2024-03-01 14:30:00",
		"B7654321;B7654321_ref.pdf;Reference only;N/A;pending;;",
		"C1111111;C1111111_proof.pdf;Proof only;N/A;rejected;missing reference;2024-03-01 14:30:00",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d:\n got %q\nwant %q", i, lines[i], want[i])
		}
	}
}

func TestStamp(t *testing.T) {
	v := session.PairView{
		Code:          "A1234567",
		ReferenceName: "A1234567_ref.pdf",
		ReferenceSize: 1000,
		ProofName:     "A1234567_proof.pdf",
		ProofSize:     2000,
		Status:        validate.PairApproved,
	}

	img, err := Stamp(v, 256)
	if err != nil {
		t.Fatalf("Stamp failed: %v", err)
	}
	b := img.Bounds()
	if b.Dx() < 64 || b.Dy() < 64 {
		t.Errorf("stamp too small: %v", b)
	}
	if b.Dx() != b.Dy() {
		t.Errorf("stamp not square: %v", b)
	}
}
