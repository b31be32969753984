package models

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"
)

// ErrInvalidEntry is returned when an entry or one of its benches misses a
// required field.
var ErrInvalidEntry = errors.New("invalid benchmark entry")

type Person struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
}

type CommitInfo struct {
	Author    Person `json:"author"`
	Committer Person `json:"committer"`
	Distinct  bool   `json:"distinct"`
	ID        string `json:"id" validate:"required"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	TreeID    string `json:"tree_id"`
	URL       string `json:"url"`
}

// Entry is one benchmark run: the commit it measured and its results.
// Date is the Unix millisecond time the run was recorded; zero is a valid
// date, only an absent one is rejected.
type Entry struct {
	Commit  CommitInfo    `json:"commit"`
	Date    int64         `json:"date"`
	Tool    string        `json:"tool" validate:"required"`
	Benches []BenchResult `json:"benches" validate:"required"`

	missingDate bool
}

type BenchResult struct {
	Name  string  `json:"name" validate:"required"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit" validate:"required"`
	Range string  `json:"range,omitempty"`
	Extra string  `json:"extra,omitempty"`

	missingValue bool
}

type entryJSON struct {
	Commit  CommitInfo    `json:"commit"`
	Date    *int64        `json:"date"`
	Tool    string        `json:"tool"`
	Benches []BenchResult `json:"benches"`
}

type benchResultJSON struct {
	Name  string   `json:"name"`
	Value *float64 `json:"value"`
	Unit  string   `json:"unit"`
	Range string   `json:"range,omitempty"`
	Extra string   `json:"extra,omitempty"`
}

// UnmarshalJSON records whether date was present; Validate rejects the entry
// when it was not.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = Entry{
		Commit:      raw.Commit,
		Tool:        raw.Tool,
		Benches:     raw.Benches,
		missingDate: raw.Date == nil,
	}
	if raw.Date != nil {
		e.Date = *raw.Date
	}
	return nil
}

// UnmarshalJSON records whether value was present, zero being a valid value.
func (b *BenchResult) UnmarshalJSON(data []byte) error {
	var raw benchResultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = BenchResult{
		Name:         raw.Name,
		Unit:         raw.Unit,
		Range:        raw.Range,
		Extra:        raw.Extra,
		missingValue: raw.Value == nil,
	}
	if raw.Value != nil {
		b.Value = *raw.Value
	}
	return nil
}

// Validate checks the required fields of the entry and all of its benches.
func (e *Entry) Validate() error {
	if e.missingDate {
		return fmt.Errorf("%w: date is required", ErrInvalidEntry)
	}
	for i := range e.Benches {
		if e.Benches[i].missingValue {
			return fmt.Errorf("%w: benches[%d]: bench %q has no value", ErrInvalidEntry, i, e.Benches[i].Name)
		}
	}
	v := validate.Struct(e)
	if !v.Validate() {
		return fmt.Errorf("%w: %s", ErrInvalidEntry, v.Errors.Error())
	}
	return nil
}

func (e Entry) clone() Entry {
	c := e
	c.Benches = make([]BenchResult, len(e.Benches))
	copy(c.Benches, e.Benches)
	return c
}
