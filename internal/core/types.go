// Package core provides the business logic for the listing forge: the
// in-memory product queue, ingestion, and the sequential batch pipeline
// that drives content generation. This package has no UI dependencies and
// can be used by any frontend.
package core

import "github.com/powertoolstore/forge/internal/generator"

// Status is the processing state of a single product record.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// RunStatus is the state of the batch run as a whole.
type RunStatus string

const (
	RunIdle       RunStatus = "idle"
	RunProcessing RunStatus = "processing"
	RunCompleted  RunStatus = "completed"
	RunCancelled  RunStatus = "cancelled"
)

// ProductRecord is one SKU's unit of work and its generated content.
//
// The generated fields are populated only on StatusCompleted; Error is
// populated only on StatusError and cleared by a later successful retry.
// Records are mutated in place by the pipeline or the manual path and are
// destroyed only by a full-queue clear.
type ProductRecord struct {
	ID                  string            `json:"id"`
	SKU                 string            `json:"sku"`
	OriginalDescription string            `json:"originalDescription"`
	Status              Status            `json:"status"`
	GeneratedTitle      string            `json:"generatedTitle,omitempty"`
	GeneratedCopy       string            `json:"generatedCopy,omitempty"`
	GeneratedTags       string            `json:"generatedTags,omitempty"`
	PersonaUsed         generator.Persona `json:"personaUsed,omitempty"`
	Error               string            `json:"error,omitempty"`
}

// Stats are per-status record counts, for dashboards.
type Stats struct {
	Queued     int `json:"queued"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Errors     int `json:"errors"`
}

// EventType identifies what changed in an Event.
type EventType string

const (
	// EventQueueChanged fires on ingestion and on clear.
	EventQueueChanged EventType = "queue"
	// EventRecordUpdated fires when one record's status or content changes.
	EventRecordUpdated EventType = "record"
	// EventRunStateChanged fires on run start, stop, and completion.
	EventRunStateChanged EventType = "run"
)

// Event is a status-change notification delivered to subscribers. Every
// event carries the current run state and stats so a presentation layer can
// render from events alone.
type Event struct {
	Type         EventType      `json:"type"`
	RunStatus    RunStatus      `json:"runStatus"`
	CurrentIndex int            `json:"currentIndex"`
	Record       *ProductRecord `json:"record,omitempty"`
	Stats        Stats          `json:"stats"`
}
