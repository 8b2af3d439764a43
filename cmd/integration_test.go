package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glowfin/churnscope-cli/internal/dataset"
	"github.com/glowfin/churnscope-cli/internal/pipeline"
)

var fixtureCSV = strings.Join([]string{
	"CLIENTNUM,Attrition_Flag,Gender,Marital_Status,Education_Level,Income_Category,Card_Category,Total_Relationship_Count,Total_Revolving_Bal,Total_Trans_Amt,Total_Trans_Ct",
	"2001,Existing Customer,M,Married,Graduate,$60K - $80K,Blue,5,777,4100,81",
	"2002,Existing Customer,F,Single,High School,Less than $40K,Blue,6,864,4020,78",
	"2003,Existing Customer,M,Married,College,$40K - $60K,Silver,4,500,3950,83",
	"2004,Existing Customer,F,Divorced,Graduate,$80K - $120K,Blue,3,1200,4210,86",
	"2005,Existing Customer,M,Unknown,Doctorate,$120K +,Gold,5,910,3890,75",
	"2006,Existing Customer,F,Married,Post-Graduate,$60K - $80K,Blue,4,605,4055,80",
	"2007,Attrited Customer,M,Single,Uneducated,Less than $40K,Blue,2,0,1150,22",
	"2008,Attrited Customer,F,Married,High School,Unknown,Blue,3,120,1090,25",
	"2009,Attrited Customer,M,Divorced,Unknown,Less than $40K,Silver,1,0,980,19",
	"2010,Attrited Customer,F,Single,College,$40K - $60K,Blue,2,233,1210,28",
	"2011,Attrited Customer,M,Unknown,Graduate,Unknown,Blue,2,90,1005,21",
	"2012,Attrited Customer,F,Married,Uneducated,Less than $40K,Blue,3,310,1120,24",
}, "\n")

// execCmd executes the root command with args, resetting sticky flag
// state between invocations.
func execCmd(t *testing.T, args ...string) {
	t.Helper()
	if f := rootCmd.PersistentFlags(); f != nil {
		for _, name := range []string{"seed", "k", "max-k", "linkage", "features", "charts-dir", "config"} {
			if fl := f.Lookup(name); fl != nil {
				fl.Changed = false
			}
		}
	}
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
}

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	t.Cleanup(func() { os.Setenv("HOME", oldHome) })
	os.Setenv("HOME", home)
	return home
}

func writeFixture(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "customers.csv")
	if err := os.WriteFile(path, []byte(fixtureCSV), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestCLI_ExportWritesAugmentedCSV(t *testing.T) {
	home := setupHome(t)
	input := writeFixture(t, home)
	output := filepath.Join(home, "out.csv")

	execCmd(t, "export", input, "-o", output, "--k", "2", "--max-k", "4")

	f, err := dataset.ReadCSV(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if f.Rows() != 12 {
		t.Fatalf("output rows = %d, want 12", f.Rows())
	}
	if !f.HasColumn(pipeline.ColKMeans) {
		t.Fatalf("output missing %s column: %v", pipeline.ColKMeans, f.Columns())
	}
}

func TestCLI_RunProducesChartsAndCSV(t *testing.T) {
	home := setupHome(t)
	input := writeFixture(t, home)
	output := filepath.Join(home, "clustered.csv")
	chartsDir := filepath.Join(home, "charts")

	execCmd(t, "run", input, "-o", output, "--k", "2", "--max-k", "4", "--charts-dir", chartsDir)

	if _, err := os.Stat(output); err != nil {
		t.Fatalf("output csv missing: %v", err)
	}
	for _, name := range []string{"elbow.html", "silhouette.html", "clusters_overlay.html", "missingness.html"} {
		if _, err := os.Stat(filepath.Join(chartsDir, name)); err != nil {
			t.Errorf("chart %s missing: %v", name, err)
		}
	}
}

func TestCLI_ConfigShow(t *testing.T) {
	setupHome(t)
	execCmd(t, "config", "show")
}
