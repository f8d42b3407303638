// Package profileio persists a profile's lifetime burden statistics to
// and from a small JSON form: {"task-id": [[count, mean, stddev], ...]},
// one triple per option in option order. Only the lifetime ("full")
// accumulator is persisted — the recent, fast-decaying window is
// meaningless outside the run that produced it and is rebuilt from
// scratch every time.
package profileio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/haskel/goblin/internal/burdenstat"
	"github.com/haskel/goblin/internal/profile"
)

// moments is one option's persisted lifetime stat: [count, mean, stddev].
type moments = [3]float64

// Save writes every task in p to w.
func Save(w io.Writer, p *profile.Profile) error {
	out := make(map[string][]moments, len(p.Tasks()))
	for id, task := range p.Tasks() {
		if err := validateID(id); err != nil {
			return err
		}
		rows := make([]moments, len(task.Estimates))
		for i, est := range task.Estimates {
			rows[i] = moments{est.Full.Count(), est.Full.Mean(), est.Full.Deviation()}
		}
		out[id] = rows
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("profileio: encode: %w", err)
	}
	return nil
}

// Load reads a profile previously written by Save into p, replacing the
// lifetime stats of any task with the same id already present (see
// profile.Profile.SetTaskFull).
func Load(r io.Reader, p *profile.Profile) error {
	var in map[string][]moments
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return fmt.Errorf("profileio: decode: %w", err)
	}

	for id, rows := range in {
		if err := validateID(id); err != nil {
			return err
		}
		stats := make([]burdenstat.Stat, len(rows))
		for i, row := range rows {
			stats[i] = burdenstat.FromMoments(row[0], row[1], row[2])
		}
		p.SetTaskFull(id, stats)
	}
	return nil
}

// validateID rejects task ids that a hand-rolled reader on the other end
// of this format (or a shell script grepping the file) could misparse:
// control characters and literal double quotes.
func validateID(id string) error {
	for _, r := range id {
		if r < 0x20 {
			return fmt.Errorf("profileio: task id %q contains a control character", id)
		}
		if r == '"' {
			return fmt.Errorf("profileio: task id %q contains a double quote", id)
		}
	}
	return nil
}
