package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `Disease,Symptoms,Treatment,Causes,Risk_Factors,Prevention
Influenza,"fever, cough, fatigue","rest, fluids","influenza virus","weak immunity, crowded places","vaccination, hand washing"
Malaria,"fever, chills","antimalarial drugs","plasmodium parasite",,"mosquito nets"
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diseases.csv")

	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	d, err := Load(writeSample(t))

	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if d.Len() != 2 {
		t.Fatalf("got %d records, want 2", d.Len())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))

	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDiseaseInfo(t *testing.T) {
	d, err := Load(writeSample(t))

	if err != nil {
		t.Fatalf("load: %v", err)
	}

	r, ok := d.DiseaseInfo("influenza")

	if !ok {
		t.Fatal("lookup is case-insensitive, should find Influenza")
	}

	if r.Treatment != "rest, fluids" {
		t.Errorf("got treatment %q", r.Treatment)
	}

	if _, ok := d.DiseaseInfo("unknownitis"); ok {
		t.Error("unexpected hit for unknown disease")
	}
}

func TestLoad_MissingColumnReadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diseases.csv")

	// no Causes column at all
	csv := "Disease,Symptoms,Treatment\nInfluenza,\"fever, cough\",\"rest, fluids\"\n"

	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}

	d, err := Load(path)

	if err != nil {
		t.Fatalf("load: %v", err)
	}

	r, ok := d.DiseaseInfo("influenza")

	if !ok {
		t.Fatal("record not loaded")
	}

	if r.Causes != "" {
		t.Errorf("causes = %q, want empty for a missing column", r.Causes)
	}

	if r.Disease != "Influenza" || r.Symptoms != "fever, cough" {
		t.Errorf("present columns misread: %+v", r)
	}
}

func TestTrainingPairs(t *testing.T) {
	d, err := Load(writeSample(t))

	if err != nil {
		t.Fatalf("load: %v", err)
	}

	pairs := d.TrainingPairs()

	// Influenza has all 5 aspects, Malaria is missing risk factors
	if len(pairs) != 9 {
		t.Fatalf("got %d pairs, want 9", len(pairs))
	}

	first := pairs[0]

	if first.Input != "What are the symptoms of Influenza?" {
		t.Errorf("unexpected first input: %q", first.Input)
	}

	if !strings.Contains(first.Output, "- fever") || !strings.Contains(first.Output, "- cough") {
		t.Errorf("symptoms not bulleted: %q", first.Output)
	}
}
