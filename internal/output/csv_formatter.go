package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/finhealth/internal/domain"
)

// CSVFormatter writes one row per factor plus a total row
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Factor", "Weight", "Score", "Status", "Message"}); err != nil {
		return nil, err
	}
	b := report.Breakdown
	for _, r := range b.OrderedFactors() {
		row := []string{
			string(r.Factor),
			r.Weight.String(),
			r.Score.StringFixed(2),
			string(r.Details.Status),
			r.Details.Message,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	if err := w.Write([]string{"total", "100", strconv.Itoa(b.TotalScore), string(b.Status), ""}); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// DetailedCSVFormatter writes one row per factor metric and label
type DetailedCSVFormatter struct{}

func (c DetailedCSVFormatter) Name() string { return "detailed-csv" }

func (c DetailedCSVFormatter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Factor", "Status", "Name", "Value"}); err != nil {
		return nil, err
	}
	for _, r := range report.Breakdown.OrderedFactors() {
		if err := writeFactorDetails(w, r); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func writeFactorDetails(w *csv.Writer, r domain.FactorResult) error {
	status := string(r.Details.Status)
	if err := w.Write([]string{string(r.Factor), status, "score", r.Score.StringFixed(2)}); err != nil {
		return err
	}
	for _, name := range sortedKeys(r.Details.Metrics) {
		if err := w.Write([]string{string(r.Factor), status, name, r.Details.Metrics[name].StringFixed(2)}); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(r.Details.Labels) {
		if err := w.Write([]string{string(r.Factor), status, name, r.Details.Labels[name]}); err != nil {
			return err
		}
	}
	return nil
}
