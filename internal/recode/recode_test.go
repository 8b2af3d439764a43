package recode

import (
	"errors"
	"strconv"
	"testing"

	"github.com/glowfin/churnscope-cli/internal/dataset"
)

func TestEncodingsMonotonicWithUnknownFloor(t *testing.T) {
	for _, enc := range []Encoding{EducationLevels, IncomeLevels, CardLevels} {
		levels := enc.Levels()
		if levels[0] != "Unknown" {
			t.Fatalf("%s: first level = %q, want Unknown", enc.Column(), levels[0])
		}
		prev := 0
		for _, l := range levels {
			r, err := enc.Rank(l)
			if err != nil {
				t.Fatalf("%s: Rank(%q): %v", enc.Column(), l, err)
			}
			if r != prev+1 {
				t.Fatalf("%s: Rank(%q) = %d, want %d", enc.Column(), l, r, prev+1)
			}
			prev = r
			back, err := enc.Decode(r)
			if err != nil || back != l {
				t.Fatalf("%s: Decode(%d) = %q, %v; want %q", enc.Column(), r, back, err, l)
			}
		}
	}
}

func TestEncodingScenario(t *testing.T) {
	if r, err := IncomeLevels.Rank("Unknown"); err != nil || r != 1 {
		t.Fatalf("income Unknown rank = %d, %v; want 1", r, err)
	}
	if r, err := EducationLevels.Rank("Doctorate"); err != nil || r != 7 {
		t.Fatalf("education Doctorate rank = %d, %v; want 7", r, err)
	}
}

func TestRankRejectsUndeclaredCategory(t *testing.T) {
	_, err := EducationLevels.Rank("PhD")
	if err == nil {
		t.Fatal("expected error for undeclared category")
	}
	var uce *UnknownCategoryError
	if !errors.As(err, &uce) {
		t.Fatalf("error type = %T, want *UnknownCategoryError", err)
	}
	if uce.Column != ColEducation || uce.Value != "PhD" {
		t.Fatalf("error context = %+v", uce)
	}
}

func testFrame(t *testing.T, rows [][]string) *dataset.Frame {
	t.Helper()
	cols := []string{"CLIENTNUM", ColAttrition, ColGender, ColMarital, ColEducation, ColIncome, ColCard}
	f, err := dataset.New(cols, rows)
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}
	return f
}

func TestClean(t *testing.T) {
	f := testFrame(t, [][]string{
		{"1", "Existing Customer", "M", "Married", "Doctorate", "Unknown", "Blue"},
		{"2", "Attrited Customer", "F", "Single", "Unknown", "$120K +", "Platinum"},
	})
	out, err := Clean(f)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}

	checks := []struct {
		column string
		want   []string
	}{
		{ColAttrition, []string{Retained, Churned}},
		{ColEducation, []string{"7", "1"}},
		{ColIncome, []string{"1", "6"}},
		{ColCard, []string{"2", "5"}},
	}
	for _, c := range checks {
		got, err := out.Column(c.column)
		if err != nil {
			t.Fatalf("Column(%s): %v", c.column, err)
		}
		for i := range c.want {
			if got[i] != c.want[i] {
				t.Errorf("%s[%d] = %q, want %q", c.column, i, got[i], c.want[i])
			}
		}
	}

	// Ordinal columns must now parse as integers.
	for _, col := range []string{ColEducation, ColIncome, ColCard} {
		vals, _ := out.Column(col)
		for _, v := range vals {
			if _, err := strconv.Atoi(v); err != nil {
				t.Errorf("%s value %q not an integer", col, v)
			}
		}
	}

	// The input frame must not have been mutated.
	orig, _ := f.Column(ColAttrition)
	if orig[0] != "Existing Customer" {
		t.Errorf("input frame mutated: %q", orig[0])
	}
}

func TestCleanRejectsUndeclaredValues(t *testing.T) {
	cases := []struct {
		name string
		row  []string
	}{
		{"attrition", []string{"1", "Former Customer", "M", "Married", "College", "Unknown", "Blue"}},
		{"gender", []string{"1", "Existing Customer", "X", "Married", "College", "Unknown", "Blue"}},
		{"marital", []string{"1", "Existing Customer", "M", "Widowed", "College", "Unknown", "Blue"}},
		{"education", []string{"1", "Existing Customer", "M", "Married", "Masters", "Unknown", "Blue"}},
		{"income", []string{"1", "Existing Customer", "M", "Married", "College", "$1M +", "Blue"}},
		{"card", []string{"1", "Existing Customer", "M", "Married", "College", "Unknown", "Titanium"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := testFrame(t, [][]string{tc.row})
			if _, err := Clean(f); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}
