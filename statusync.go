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

	"github.com/nthplatform/statusync/config"
	"github.com/nthplatform/statusync/internal/confirmafacil"
	"github.com/nthplatform/statusync/internal/sheets"
	"github.com/nthplatform/statusync/model"
)

// TrackingClient is the carrier lookup collaborator. The production
// implementation is the Confirma Facil client.
type TrackingClient interface {
	// Authenticate acquires the session reused by every lookup in a run.
	Authenticate(ctx context.Context) error
	// OccurrencesByOrders resolves a batch of order ids to their
	// occurrences, keyed by normalized order number.
	OccurrencesByOrders(ctx context.Context, orders []string) (map[string][]model.Occurrence, error)
	// OccurrencesByInvoice resolves one invoice + shipper tax id pair.
	OccurrencesByInvoice(ctx context.Context, invoice, taxID string) ([]model.Occurrence, error)
}

// Statusync is the main struct for the status reconciliation application.
type Statusync struct {
	spreadsheet sheets.Service
	tracking    TrackingClient
}

// NewStatusync initializes a new instance of Statusync from the loaded
// configuration: a Google Sheets service and a Confirma Facil client.
func NewStatusync(ctx context.Context) (*Statusync, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	spreadsheet, err := sheets.NewService(ctx, configuration.Spreadsheet.CredentialsPath)
	if err != nil {
		return nil, err
	}

	tracking := confirmafacil.NewClient(configuration.Tracking)
	return &Statusync{spreadsheet: spreadsheet, tracking: tracking}, nil
}

// NewStatusyncWithClients wires explicit collaborators. Used by tests.
func NewStatusyncWithClients(spreadsheet sheets.Service, tracking TrackingClient) *Statusync {
	return &Statusync{spreadsheet: spreadsheet, tracking: tracking}
}
