package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// Point at an absent file so only defaults apply.
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	o, err := Load(cfgFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if o.Seed != 11 {
		t.Errorf("Seed = %d, want 11", o.Seed)
	}
	if o.FinalK != 3 {
		t.Errorf("FinalK = %d, want 3", o.FinalK)
	}
	if o.MaxK != 10 {
		t.Errorf("MaxK = %d, want 10", o.MaxK)
	}
	if o.Linkage != "ward" {
		t.Errorf("Linkage = %q, want ward", o.Linkage)
	}
	if o.Restarts != 10 {
		t.Errorf("Restarts = %d, want 10", o.Restarts)
	}
	if !reflect.DeepEqual(o.Features, DefaultFeatures()) {
		t.Errorf("Features = %v", o.Features)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	want := &Options{
		Seed:      42,
		FinalK:    4,
		MaxK:      8,
		Linkage:   "ward",
		MaxIter:   50,
		Restarts:  5,
		Features:  []string{"Total_Trans_Amt", "Total_Trans_Ct"},
		ChartsDir: "out",
	}
	if err := Save(want, cfgFile); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(cfgFile); err != nil {
		t.Fatalf("config file missing: %v", err)
	}
	got, err := Load(cfgFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Seed != 42 || got.FinalK != 4 || got.MaxK != 8 || got.MaxIter != 50 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !reflect.DeepEqual(got.Features, want.Features) {
		t.Fatalf("Features = %v, want %v", got.Features, want.Features)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Options {
		return &Options{Seed: 11, FinalK: 3, MaxK: 10, Linkage: "ward", MaxIter: 100, Restarts: 10, Features: DefaultFeatures()}
	}
	if err := base().Validate(); err != nil {
		t.Fatalf("valid options rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Options)
	}{
		{"final_k zero", func(o *Options) { o.FinalK = 0 }},
		{"max_k below final_k", func(o *Options) { o.MaxK = 2 }},
		{"max_iter zero", func(o *Options) { o.MaxIter = 0 }},
		{"restarts zero", func(o *Options) { o.Restarts = 0 }},
		{"one feature", func(o *Options) { o.Features = []string{"Total_Trans_Amt"} }},
		{"bad linkage", func(o *Options) { o.Linkage = "single" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := base()
			tc.mutate(o)
			if err := o.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	o := &Options{}
	if got := o.OutputPath("data/bank.csv"); got != "data/bank_clustered.csv" {
		t.Fatalf("OutputPath = %q", got)
	}
	o.Output = "custom.csv"
	if got := o.OutputPath("data/bank.csv"); got != "custom.csv" {
		t.Fatalf("OutputPath override = %q", got)
	}
}
