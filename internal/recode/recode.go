// Package recode maps the raw categorical columns of the customer table
// onto the encodings used downstream: a two-level retention label,
// validated nominal categories, and ordinal integer ranks for the ordered
// categories (education, income band, card tier).
package recode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/glowfin/churnscope-cli/internal/dataset"
)

// Column names of the raw input schema.
const (
	ColAttrition = "Attrition_Flag"
	ColGender    = "Gender"
	ColMarital   = "Marital_Status"
	ColEducation = "Education_Level"
	ColIncome    = "Income_Category"
	ColCard      = "Card_Category"
)

// Retention labels replacing the verbose raw attrition flag.
const (
	Retained = "Retained"
	Churned  = "Churned"
)

// UnknownCategoryError reports a raw cell outside a column's declared
// category list. Values are never coerced to missing: an undeclared
// category means the input schema drifted and the run must stop.
type UnknownCategoryError struct {
	Column  string
	Value   string
	Allowed []string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q in column %q (allowed: %s)",
		e.Value, e.Column, strings.Join(e.Allowed, ", "))
}

// Encoding is a fixed ordered category list mapped to consecutive integer
// ranks starting at 1. The first level is always "Unknown", so the
// explicit unknown floor encodes below every real category.
type Encoding struct {
	column string
	levels []string
	ranks  map[string]int
}

func newEncoding(column string, levels ...string) Encoding {
	ranks := make(map[string]int, len(levels))
	for i, l := range levels {
		ranks[l] = i + 1
	}
	return Encoding{column: column, levels: levels, ranks: ranks}
}

// Declared ordinal encodings. Order is part of the data contract; do not
// reorder levels without re-deriving every stored artifact.
var (
	EducationLevels = newEncoding(ColEducation,
		"Unknown", "Uneducated", "High School", "College", "Graduate", "Post-Graduate", "Doctorate")
	IncomeLevels = newEncoding(ColIncome,
		"Unknown", "Less than $40K", "$40K - $60K", "$60K - $80K", "$80K - $120K", "$120K +")
	CardLevels = newEncoding(ColCard,
		"Unknown", "Blue", "Silver", "Gold", "Platinum")
)

// Column returns the column this encoding applies to.
func (e Encoding) Column() string { return e.column }

// Levels returns the ordered category list, lowest rank first.
func (e Encoding) Levels() []string {
	out := make([]string, len(e.levels))
	copy(out, e.levels)
	return out
}

// Rank maps a category to its 1-based rank.
func (e Encoding) Rank(value string) (int, error) {
	r, ok := e.ranks[strings.TrimSpace(value)]
	if !ok {
		return 0, &UnknownCategoryError{Column: e.column, Value: value, Allowed: e.Levels()}
	}
	return r, nil
}

// Decode maps a rank back to its category name.
func (e Encoding) Decode(rank int) (string, error) {
	if rank < 1 || rank > len(e.levels) {
		return "", fmt.Errorf("rank %d out of range for column %q (1..%d)", rank, e.column, len(e.levels))
	}
	return e.levels[rank-1], nil
}

// Nominal enumerations validated but left as strings.
var (
	genderLevels  = []string{"M", "F"}
	maritalLevels = []string{"Married", "Single", "Divorced", "Unknown"}

	attritionLabels = map[string]string{
		"Existing Customer": Retained,
		"Attrited Customer": Churned,
	}
)

// Clean applies every recode and returns a new frame: retention relabel,
// nominal validation, and ordinal integer encoding. The input frame is
// not modified.
func Clean(f *dataset.Frame) (*dataset.Frame, error) {
	out, err := f.WithRecoded(ColAttrition, func(v string) (string, error) {
		label, ok := attritionLabels[strings.TrimSpace(v)]
		if !ok {
			allowed := []string{"Existing Customer", "Attrited Customer"}
			return "", &UnknownCategoryError{Column: ColAttrition, Value: v, Allowed: allowed}
		}
		return label, nil
	})
	if err != nil {
		return nil, err
	}

	for _, nom := range []struct {
		column string
		levels []string
	}{
		{ColGender, genderLevels},
		{ColMarital, maritalLevels},
	} {
		nom := nom
		out, err = out.WithRecoded(nom.column, func(v string) (string, error) {
			t := strings.TrimSpace(v)
			for _, l := range nom.levels {
				if t == l {
					return l, nil
				}
			}
			return "", &UnknownCategoryError{Column: nom.column, Value: v, Allowed: nom.levels}
		})
		if err != nil {
			return nil, err
		}
	}

	for _, enc := range []Encoding{EducationLevels, IncomeLevels, CardLevels} {
		enc := enc
		out, err = out.WithRecoded(enc.Column(), func(v string) (string, error) {
			r, err := enc.Rank(v)
			if err != nil {
				return "", err
			}
			return strconv.Itoa(r), nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
