package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// Record is one row of the diseases-and-symptoms CSV.
type Record struct {
	Disease     string
	Symptoms    string
	Treatment   string
	Causes      string
	RiskFactors string
	Prevention  string
}

// Pair is one input/output example for the trainer.
type Pair struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

type Dataset struct {
	records []Record
	byName  map[string]Record
}

// Load reads the CSV (header row expected) into memory. The file is small
// enough that whole-file loading beats lazy reads.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)

	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}

	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()

	if err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset %s is empty", path)
	}

	col := indexColumns(rows[0])

	d := &Dataset{
		byName: make(map[string]Record, len(rows)-1),
	}

	for _, row := range rows[1:] {
		r := Record{
			Disease:     field(row, col.index("disease")),
			Symptoms:    field(row, col.index("symptoms")),
			Treatment:   field(row, col.index("treatment")),
			Causes:      field(row, col.index("causes")),
			RiskFactors: field(row, col.index("risk_factors")),
			Prevention:  field(row, col.index("prevention")),
		}

		if r.Disease == "" {
			continue
		}

		d.records = append(d.records, r)
		d.byName[strings.ToLower(r.Disease)] = r
	}

	return d, nil
}

type columns map[string]int

func indexColumns(header []string) columns {
	col := make(columns, len(header))

	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		col[key] = i
	}
	return col
}

// index returns -1 for headers the file does not have, so a missing
// column reads as empty rather than as column zero.
func (c columns) index(name string) int {
	if i, ok := c[name]; ok {
		return i
	}
	return -1
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (d *Dataset) Len() int {
	return len(d.records)
}

// DiseaseInfo looks a disease up by name, case-insensitively.
func (d *Dataset) DiseaseInfo(name string) (Record, bool) {
	r, ok := d.byName[strings.ToLower(strings.TrimSpace(name))]
	return r, ok
}

// TrainingPairs expands every record into question/answer examples, one
// per aspect (symptoms, treatment, causes, risk factors, prevention).
func (d *Dataset) TrainingPairs() []Pair {
	pairs := make([]Pair, 0, len(d.records)*5)

	for _, r := range d.records {
		aspects := []struct {
			question string
			heading  string
			value    string
		}{
			{fmt.Sprintf("What are the symptoms of %s?", r.Disease), fmt.Sprintf("Symptoms of %s", r.Disease), r.Symptoms},
			{fmt.Sprintf("How to treat %s?", r.Disease), fmt.Sprintf("Treatment for %s", r.Disease), r.Treatment},
			{fmt.Sprintf("What causes %s?", r.Disease), fmt.Sprintf("Causes of %s", r.Disease), r.Causes},
			{fmt.Sprintf("What are the risk factors for %s?", r.Disease), fmt.Sprintf("Risk factors for %s", r.Disease), r.RiskFactors},
			{fmt.Sprintf("How to prevent %s?", r.Disease), fmt.Sprintf("Prevention of %s", r.Disease), r.Prevention},
		}

		for _, a := range aspects {
			if a.value == "" {
				continue
			}

			pairs = append(pairs, Pair{
				Input:  a.question,
				Output: a.heading + ":\n" + bulletList(a.value),
			})
		}
	}

	return pairs
}

func bulletList(commaSeparated string) string {
	parts := strings.Split(commaSeparated, ",")
	lines := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			lines = append(lines, "- "+p)
		}
	}
	return strings.Join(lines, "\n")
}
