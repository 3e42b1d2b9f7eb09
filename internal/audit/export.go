package audit

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"
)

var csvHeader = []string{"id", "created_at", "user", "branch", "action", "entity", "entity_id", "details"}

// WriteCSV renders entries as CSV with a header row.
func WriteCSV(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, e := range entries {
		record := []string{
			strconv.FormatInt(e.ID, 10),
			e.At.UTC().Format(time.RFC3339),
			deref(e.UserName),
			deref(e.BranchName),
			e.Action,
			e.Entity,
			deref(e.EntityID),
			deref(e.Details),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
