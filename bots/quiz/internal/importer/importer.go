// Package importer reads question workbooks uploaded by the owner.
//
// The first sheet is used. Its first row names the columns; the recognised
// headers are Question_Stem, answer_A..answer_D, Correct_Answer and
// Explanation, in any order. Every following non-empty row is one question.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/m3rciful/tgbots/bots/quiz/internal/models"
)

// Column headers.
const (
	ColStem        = "Question_Stem"
	ColA           = "answer_A"
	ColB           = "answer_B"
	ColC           = "answer_C"
	ColD           = "answer_D"
	ColCorrect     = "Correct_Answer"
	ColExplanation = "Explanation"
)

var (
	// ErrNoSheet is returned for workbooks without sheets.
	ErrNoSheet = errors.New("workbook has no sheets")
	// ErrMissingStem is returned when the header row lacks Question_Stem.
	ErrMissingStem = errors.New("header row has no " + ColStem + " column")
	// ErrTooManyRows is returned when a workbook exceeds the row limit.
	ErrTooManyRows = errors.New("workbook has too many rows")
	// ErrUnreadable is returned when r does not hold a readable workbook.
	ErrUnreadable = errors.New("file is not a readable workbook")
)

// Parser converts workbooks into questions.
type Parser struct {
	// MaxRows limits question rows; 0 disables the limit.
	MaxRows int
}

// Parse reads the first sheet of the workbook in r.
func (p Parser) Parse(r io.Reader) ([]models.Question, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrMissingStem
	}

	cols := headerIndex(rows[0])
	if _, ok := cols[ColStem]; !ok {
		return nil, ErrMissingStem
	}

	out := make([]models.Question, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		if p.MaxRows > 0 && len(out) == p.MaxRows {
			return nil, fmt.Errorf("%w: limit %d", ErrTooManyRows, p.MaxRows)
		}
		cell := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}
		out = append(out, models.Question{
			Stem:        cell(ColStem),
			A:           cell(ColA),
			B:           cell(ColB),
			C:           cell(ColC),
			D:           cell(ColD),
			Correct:     strings.ToUpper(strings.TrimSpace(cell(ColCorrect))),
			Explanation: cell(ColExplanation),
		})
	}
	return out, nil
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	return cols
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
