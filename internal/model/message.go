// Package model defines the core data structures for banner.
package model

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"

	"github.com/mlvnd/banner/internal/present"
)

// Message is a transient message an application wants shown. Its ID is
// the stable identity that correlates a shown instance with its later
// dismissal event; two messages with identical content still carry
// distinct IDs unless deliberately copied.
type Message struct {
	ID           string `json:"id" yaml:"id"`
	Summary      string `json:"summary" yaml:"summary"`
	Body         string `json:"body,omitempty" yaml:"body,omitempty"`
	Severity     int    `json:"severity" yaml:"severity"`
	SeverityName string `json:"severity_name" yaml:"severity_name"`
	CreatedAt    int64  `json:"created_at" yaml:"created_at"`

	// Present optionally self-describes how this message wants to be
	// shown. It loses to an explicit per-binding config and wins over
	// the presenter's default.
	Present *present.Config `json:"-" yaml:"-"`
}

// Validation errors.
var (
	ErrEmptyID         = errors.New("id cannot be empty")
	ErrEmptySummary    = errors.New("summary cannot be empty")
	ErrInvalidSeverity = errors.New("severity must be 0, 1, or 2")
)

// New creates a Message with a generated ULID and the normal severity.
func New(summary, body string) (*Message, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ULID: %w", err)
	}

	return &Message{
		ID:           id.String(),
		Summary:      summary,
		Body:         body,
		Severity:     present.SeverityNormal,
		SeverityName: present.SeverityNames[present.SeverityNormal],
		CreatedAt:    time.Now().Unix(),
	}, nil
}

// Validate checks that the message has all required fields.
func (m *Message) Validate() error {
	if m.ID == "" {
		return ErrEmptyID
	}
	if m.Summary == "" {
		return ErrEmptySummary
	}
	if m.Severity < present.SeverityLow || m.Severity > present.SeverityCritical {
		return ErrInvalidSeverity
	}
	return nil
}

// SetSeverity sets the severity level and its human-readable name.
// Out-of-range levels fall back to normal.
func (m *Message) SetSeverity(level int) {
	if level < present.SeverityLow || level > present.SeverityCritical {
		level = present.SeverityNormal
	}
	m.Severity = level
	m.SeverityName = present.SeverityNames[level]
}

// Equal reports content equality. Identity (ID) is deliberately
// excluded: a re-issued message with fresh identity still compares
// equal to its original.
func (m *Message) Equal(other *Message) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.Summary == other.Summary &&
		m.Body == other.Body &&
		m.Severity == other.Severity
}

// RelativeTime returns a human-readable relative creation time,
// e.g. "5 seconds ago".
func (m *Message) RelativeTime() string {
	return humanize.Time(time.Unix(m.CreatedAt, 0))
}

// CreatedAtTime returns the creation timestamp as a time.Time.
func (m *Message) CreatedAtTime() time.Time {
	return time.Unix(m.CreatedAt, 0)
}

// EncodeYAML writes the message to w as a YAML document.
func (m *Message) EncodeYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(m); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// Clone creates a copy of the message sharing the same identity.
func (m *Message) Clone() *Message {
	clone := *m
	if m.Present != nil {
		clone.Present = m.Present.Clone()
	}
	return &clone
}
