package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/chd/chd/internal/domain/patient"
	"github.com/chd/chd/pkg/stats"
)

// Fill policy per column. Required columns drop the row when missing.
var (
	requiredFields = []patient.Field{
		patient.FieldMale, patient.FieldAge, patient.FieldSysBP, patient.FieldTenYearCHD,
	}
	medianFields = []patient.Field{
		patient.FieldEducation, patient.FieldTotChol, patient.FieldDiaBP,
		patient.FieldBMI, patient.FieldHeartRate, patient.FieldGlucose,
	}
	zeroFields = []patient.Field{
		patient.FieldCigsPerDay, patient.FieldBPMeds, patient.FieldCurrentSmoker,
		patient.FieldPrevalentStroke, patient.FieldPrevalentHyp, patient.FieldDiabetes,
	}
)

var missingTokens = map[string]bool{"": true, "NA": true, "N/A": true, "NaN": true, "nan": true, "null": true}

var errNoHeader = errors.New("source has no header row")

// Report summarizes one cleaning pass.
type Report struct {
	Rows           int
	Kept           int
	DroppedMissing int
	DroppedInvalid int
	DroppedColumns []string
	Filled         map[patient.Field]int
}

type row map[patient.Field]*float64

// ParseCSV reads a cohort CSV, applies the cleaning policy and returns records
// with fresh ids.
func ParseCSV(r io.Reader) ([]*patient.Patient, *Report, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, errNoHeader
	}
	header, body := records[0], records[1:]

	report := &Report{Rows: len(body), Filled: map[patient.Field]int{}}
	columns := map[patient.Field]int{}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" || columnEmpty(body, i) {
			report.DroppedColumns = append(report.DroppedColumns, fmt.Sprintf("#%d %s", i, name))
			continue
		}
		f := patient.Field(name)
		if f.Valid() {
			columns[f] = i
		}
	}
	for _, f := range requiredFields {
		if _, ok := columns[f]; !ok {
			return nil, nil, fmt.Errorf("required column %q is missing or empty", f)
		}
	}

	rows := make([]row, 0, len(body))
	for _, rec := range body {
		rw := parseRow(rec, columns)
		if lo.SomeBy(requiredFields, func(f patient.Field) bool { return rw[f] == nil }) {
			report.DroppedMissing++
			continue
		}
		rows = append(rows, rw)
	}

	for _, f := range medianFields {
		present := lo.FilterMap(rows, func(rw row, _ int) (float64, bool) {
			if rw[f] == nil {
				return 0, false
			}
			return *rw[f], true
		})
		fill(rows, f, stats.Median(present), report)
	}
	for _, f := range zeroFields {
		fill(rows, f, 0, report)
	}

	out := make([]*patient.Patient, 0, len(rows))
	for _, rw := range rows {
		p := toPatient(rw)
		if err := p.Validate(); err != nil {
			report.DroppedInvalid++
			continue
		}
		out = append(out, p)
	}
	report.Kept = len(out)
	return out, report, nil
}

func columnEmpty(body [][]string, col int) bool {
	for _, rec := range body {
		if col < len(rec) && !missingTokens[strings.TrimSpace(rec[col])] {
			return false
		}
	}
	return true
}

func parseRow(rec []string, columns map[patient.Field]int) row {
	rw := row{}
	for f, i := range columns {
		if i >= len(rec) {
			continue
		}
		cell := strings.TrimSpace(rec[i])
		if missingTokens[cell] {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		rw[f] = &v
	}
	return rw
}

func fill(rows []row, f patient.Field, value float64, report *Report) {
	for _, rw := range rows {
		if rw[f] == nil {
			v := value
			rw[f] = &v
			report.Filled[f]++
		}
	}
}

func toPatient(rw row) *patient.Patient {
	num := func(f patient.Field) float64 { return *rw[f] }
	flag := func(f patient.Field) int { return int(math.Round(*rw[f])) }
	return &patient.Patient{
		ID:              uuid.NewString(),
		Male:            flag(patient.FieldMale),
		Age:             flag(patient.FieldAge),
		Education:       flag(patient.FieldEducation),
		CurrentSmoker:   flag(patient.FieldCurrentSmoker),
		CigsPerDay:      num(patient.FieldCigsPerDay),
		BPMeds:          flag(patient.FieldBPMeds),
		PrevalentStroke: flag(patient.FieldPrevalentStroke),
		PrevalentHyp:    flag(patient.FieldPrevalentHyp),
		Diabetes:        flag(patient.FieldDiabetes),
		TotChol:         num(patient.FieldTotChol),
		SysBP:           num(patient.FieldSysBP),
		DiaBP:           num(patient.FieldDiaBP),
		BMI:             num(patient.FieldBMI),
		HeartRate:       num(patient.FieldHeartRate),
		Glucose:         num(patient.FieldGlucose),
		TenYearCHD:      flag(patient.FieldTenYearCHD),
	}
}
