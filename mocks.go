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

package statusync

import (
	"context"

	"github.com/nthplatform/statusync/internal/apierror"
	"github.com/nthplatform/statusync/model"
)

// mockSpreadsheet is an in-memory sheets.Service used by the pipeline tests.
// Reads serve the configured input values; writes are captured per range.
type mockSpreadsheet struct {
	values  [][]interface{}
	readErr error

	writes   map[string][][]interface{}
	writeErr error
}

func newMockSpreadsheet(values [][]interface{}) *mockSpreadsheet {
	return &mockSpreadsheet{values: values, writes: make(map[string][][]interface{})}
}

func (m *mockSpreadsheet) Read(_ context.Context, _, _ string) ([][]interface{}, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.values, nil
}

func (m *mockSpreadsheet) Write(_ context.Context, _, writeRange string, values [][]interface{}) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes[writeRange] = values
	return nil
}

// mockTracker is a canned TrackingClient. Occurrences are keyed by order
// number or by "invoice/taxid"; keys listed in transient fail with a
// TRANSIENT_ERROR, authErr makes Authenticate fail.
type mockTracker struct {
	occurrences map[string][]model.Occurrence
	transient   map[string]struct{}
	authErr     error

	authCalls   int
	lookupCalls int
}

func newMockTracker(occurrences map[string][]model.Occurrence) *mockTracker {
	return &mockTracker{occurrences: occurrences, transient: make(map[string]struct{})}
}

func (m *mockTracker) Authenticate(_ context.Context) error {
	m.authCalls++
	return m.authErr
}

func (m *mockTracker) OccurrencesByOrders(_ context.Context, orders []string) (map[string][]model.Occurrence, error) {
	m.lookupCalls++
	grouped := make(map[string][]model.Occurrence)
	for _, order := range orders {
		if _, ok := m.transient[order]; ok {
			return nil, apierror.APIError{Code: apierror.ErrTransient, Message: "carrier timeout"}
		}
		if occ, ok := m.occurrences[order]; ok {
			grouped[order] = occ
		}
	}
	return grouped, nil
}

func (m *mockTracker) OccurrencesByInvoice(_ context.Context, invoice, taxID string) ([]model.Occurrence, error) {
	m.lookupCalls++
	key := invoice + "/" + taxID
	if _, ok := m.transient[key]; ok {
		return nil, apierror.APIError{Code: apierror.ErrTransient, Message: "carrier timeout"}
	}
	return m.occurrences[key], nil
}
