// Package report turns a session snapshot into deliverables: the CSV review
// table and per-pair approval stamps.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ivlev/proofcheck/internal/session"
	"github.com/ivlev/proofcheck/internal/validate"
)

var csvHeader = []string{"Code", "Filename", "Matching", "Similarity", "Validation", "Comment", "Date"}

// WriteCSV writes the review table, one row per pair, ';' separated the way
// the print shop's spreadsheets expect.
func WriteCSV(w io.Writer, pairs []session.PairView, now time.Time) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range pairs {
		if err := cw.Write(row(p, now)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the review table to a file.
func SaveCSV(path string, pairs []session.PairView, now time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteCSV(f, pairs, now)
}

func row(p session.PairView, now time.Time) []string {
	filename := p.ReferenceName
	if filename == "" {
		filename = p.ProofName
	}

	matching := "Both files"
	switch {
	case p.ReferenceName == "":
		matching = "Proof only"
	case p.ProofName == "":
		matching = "Reference only"
	}

	similarity := "N/A"
	if p.Similarity != nil {
		similarity = fmt.Sprintf("%.1f%%", *p.Similarity)
	}

	date := ""
	if p.Status != validate.PairPending {
		date = now.Format("2006-01-02 15:04:05")
	}

	return []string{p.Code, filename, matching, similarity, p.Status.String(), p.Comment, date}
}
