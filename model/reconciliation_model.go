/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package model

import (
	"fmt"
	"time"
)

// Status is the normalized delivery status written back into the sheet.
type Status string

const (
	StatusDelivered  Status = "ENTREGUE"
	StatusCancelled  Status = "CANCELADO"
	StatusUnresolved Status = "-"

	// StatusHeader is the literal label written into row 1 of the output
	// column when the input range carried a header row.
	StatusHeader = "STATUS"
)

// OccurrenceKind buckets a Confirma Facil occurrence code.
type OccurrenceKind string

const (
	OccurrenceDelivered OccurrenceKind = "delivered"
	OccurrenceCancelled OccurrenceKind = "cancelled"
	OccurrenceOther     OccurrenceKind = "other"
)

// Occurrence is one tracking event returned by the carrier for a key.
// RecordedAt is nil when the API omits the event timestamp.
type Occurrence struct {
	Code       string         `json:"code"`
	Kind       OccurrenceKind `json:"kind"`
	RecordedAt *time.Time     `json:"recorded_at,omitempty"`
}

// RowKey identifies one spreadsheet row against the tracking service.
// Implementations are value types; equality is on normalized content.
type RowKey interface {
	// IsZero reports whether the key is empty after normalization, meaning
	// the row must be skipped.
	IsZero() bool
	fmt.Stringer
}

// OrderKey keys a PREVENTIVOS row by order number.
type OrderKey struct {
	Order string `json:"order"`
}

func (k OrderKey) IsZero() bool {
	return k.Order == ""
}

func (k OrderKey) String() string {
	return k.Order
}

// InvoiceKey keys a COBRANCA row by invoice number plus shipper tax id.
type InvoiceKey struct {
	Invoice string `json:"invoice"`
	TaxID   string `json:"tax_id"`
}

func (k InvoiceKey) IsZero() bool {
	return k.Invoice == "" || k.TaxID == ""
}

func (k InvoiceKey) String() string {
	return fmt.Sprintf("%s/%s", k.Invoice, k.TaxID)
}

// RowRecord is one non-blank input row. RowIndex is the 1-based physical
// sheet row, never renumbered after blank rows are filtered out.
type RowRecord struct {
	RowIndex int    `json:"row_index"`
	Key      RowKey `json:"key"`
}

// OutputCell pairs a physical sheet row with the status to write into it.
type OutputCell struct {
	RowIndex int    `json:"row_index"`
	Status   Status `json:"status"`
}

// LookupFailure records a per-key lookup that was absorbed as "-" instead of
// aborting the run.
type LookupFailure struct {
	Key      string `json:"key"`
	RowIndex int    `json:"row_index"`
	Reason   string `json:"reason"`
}

// ReconciliationReport summarizes one pipeline run over a single view.
type ReconciliationReport struct {
	ReconciliationID string          `json:"reconciliation_id"`
	View             string          `json:"view"`
	RowsRead         int             `json:"rows_read"`
	RowsSkipped      int             `json:"rows_skipped"`
	Delivered        int             `json:"delivered"`
	Cancelled        int             `json:"cancelled"`
	Unresolved       int             `json:"unresolved"`
	LookupFailures   []LookupFailure `json:"lookup_failures,omitempty"`
	StartedAt        time.Time       `json:"started_at"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
}

// Count tallies one classified row into the report.
func (r *ReconciliationReport) Count(status Status) {
	switch status {
	case StatusDelivered:
		r.Delivered++
	case StatusCancelled:
		r.Cancelled++
	default:
		r.Unresolved++
	}
}
