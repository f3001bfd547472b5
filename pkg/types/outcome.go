// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// OutcomeStatus is the result of converting one file in a batch.
type OutcomeStatus string

const (
	OutcomeConverted OutcomeStatus = "converted"
	OutcomeSkipped   OutcomeStatus = "skipped"
	OutcomeFailed    OutcomeStatus = "failed"
)

// Outcome records what happened to a single source file. Failed outcomes
// carry the error kind and message; the others carry the destination.
type Outcome struct {
	Source    string        `json:"source" yaml:"source"`
	Dest      string        `json:"dest,omitempty" yaml:"dest,omitempty"`
	Status    OutcomeStatus `json:"status" yaml:"status"`
	ErrorKind string        `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Message   string        `json:"message,omitempty" yaml:"message,omitempty"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// BatchResult holds the outcomes of one recursive conversion run, ordered
// by source path.
type BatchResult struct {
	Key      ConversionKey `json:"key" yaml:"key"`
	Root     string        `json:"root" yaml:"root"`
	Outcomes []Outcome     `json:"outcomes" yaml:"outcomes"`
}

func (r BatchResult) count(s OutcomeStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Converted returns the number of files written.
func (r BatchResult) Converted() int { return r.count(OutcomeConverted) }

// Skipped returns the number of files left alone by the collision policy.
func (r BatchResult) Skipped() int { return r.count(OutcomeSkipped) }

// Failed returns the number of files that could not be converted.
func (r BatchResult) Failed() int { return r.count(OutcomeFailed) }

// Total returns the total number of files processed.
func (r BatchResult) Total() int { return len(r.Outcomes) }

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool { return r.Failed() > 0 }
