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
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nthplatform/statusync/config"
	"github.com/nthplatform/statusync/internal/apierror"
	"github.com/nthplatform/statusync/internal/confirmafacil"
	"github.com/nthplatform/statusync/internal/sheets"
	"github.com/nthplatform/statusync/model"
)

// View names the two reconciled spreadsheet views.
type View string

const (
	ViewPreventivos View = "PREVENTIVOS"
	ViewCobranca    View = "COBRANCA"
)

// ReconcileView runs one full pipeline over the named view: read the input
// range, look up every key against the carrier, classify, and write the
// status column back. The two views never share state; running them in any
// order, or only one of them, is fine.
func (s *Statusync) ReconcileView(ctx context.Context, view View) (*model.ReconciliationReport, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	var viewCnf config.ViewConfig
	switch view {
	case ViewPreventivos:
		viewCnf = configuration.PreventivosView()
	case ViewCobranca:
		viewCnf = configuration.CobrancaView()
	default:
		return nil, apierror.NewAPIError(apierror.ErrSourceRead, "unknown view", string(view))
	}

	report := &model.ReconciliationReport{
		ReconciliationID: model.GenerateUUIDWithSuffix("rec"),
		View:             string(view),
		StartedAt:        time.Now(),
	}
	logrus.WithFields(logrus.Fields{
		"reconciliation_id": report.ReconciliationID,
		"view":              view,
		"input_range":       viewCnf.InputRange,
	}).Info("starting status reconciliation")

	values, err := s.spreadsheet.Read(ctx, viewCnf.SheetID, viewCnf.InputRange)
	if err != nil {
		return report, err
	}

	var records []model.RowRecord
	var hasHeader bool
	switch view {
	case ViewPreventivos:
		records, hasHeader = ParseOrderRows(values)
	case ViewCobranca:
		records, hasHeader = ParseInvoiceRows(values)
	}

	report.RowsRead = len(records)
	report.RowsSkipped = len(values) - len(records)
	if hasHeader {
		report.RowsSkipped--
	}
	if len(records) == 0 {
		logrus.WithField("view", view).Warn("no keyed rows found, nothing to reconcile")
		completed := time.Now()
		report.CompletedAt = &completed
		return report, nil
	}

	// One session for the whole run; every lookup reuses the token.
	if err := s.tracking.Authenticate(ctx); err != nil {
		return report, err
	}

	var statuses map[string]model.Status
	switch view {
	case ViewPreventivos:
		statuses, err = s.resolveOrderStatuses(ctx, records, report)
	case ViewCobranca:
		statuses, err = s.resolveInvoiceStatuses(ctx, records, report)
	}
	if err != nil {
		return report, err
	}

	cells := make([]model.OutputCell, 0, len(records))
	for _, record := range records {
		status := statuses[record.Key.String()]
		if status == "" {
			status = model.StatusUnresolved
		}
		report.Count(status)
		cells = append(cells, model.OutputCell{RowIndex: record.RowIndex, Status: status})
	}

	if err := s.writeStatuses(ctx, viewCnf, cells, hasHeader); err != nil {
		return report, err
	}

	if configuration.Export.Enabled {
		if path, exportErr := s.exportSnapshot(configuration.Export.Dir, view, records, statuses); exportErr != nil {
			logrus.WithError(exportErr).Warn("could not export snapshot")
		} else {
			logrus.WithField("path", path).Info("exported snapshot")
		}
	}

	completed := time.Now()
	report.CompletedAt = &completed
	logrus.WithFields(logrus.Fields{
		"reconciliation_id": report.ReconciliationID,
		"delivered":         report.Delivered,
		"cancelled":         report.Cancelled,
		"unresolved":        report.Unresolved,
		"lookup_failures":   len(report.LookupFailures),
	}).Info("status reconciliation completed")
	return report, nil
}

// resolveOrderStatuses classifies PREVENTIVOS keys. Orders are de-duplicated
// and looked up in carrier-sized batches; a transient failure poisons only
// the orders of that batch, which resolve to "-" with the failure recorded.
func (s *Statusync) resolveOrderStatuses(ctx context.Context, records []model.RowRecord, report *model.ReconciliationReport) (map[string]model.Status, error) {
	seen := make(map[string]struct{}, len(records))
	orders := make([]string, 0, len(records))
	firstRow := make(map[string]int, len(records))
	for _, record := range records {
		order := record.Key.String()
		if _, ok := seen[order]; ok {
			continue
		}
		seen[order] = struct{}{}
		orders = append(orders, order)
		firstRow[order] = record.RowIndex
	}

	statuses := make(map[string]model.Status, len(orders))
	for start := 0; start < len(orders); start += confirmafacil.MaxOrderBatch {
		end := start + confirmafacil.MaxOrderBatch
		if end > len(orders) {
			end = len(orders)
		}
		batch := orders[start:end]

		grouped, err := s.tracking.OccurrencesByOrders(ctx, batch)
		if err != nil {
			if apierror.IsFatal(err) {
				return nil, err
			}
			for _, order := range batch {
				statuses[order] = model.StatusUnresolved
				report.LookupFailures = append(report.LookupFailures, model.LookupFailure{
					Key:      order,
					RowIndex: firstRow[order],
					Reason:   err.Error(),
				})
			}
			logrus.WithError(err).WithField("orders", batch).Warn("lookup failed, orders resolve to \"-\"")
			continue
		}

		for _, order := range batch {
			statuses[order] = Classify(grouped[order])
		}
	}
	return statuses, nil
}

// resolveInvoiceStatuses classifies COBRANCA keys one lookup per unique
// invoice + tax id pair, sequentially, reusing the session.
func (s *Statusync) resolveInvoiceStatuses(ctx context.Context, records []model.RowRecord, report *model.ReconciliationReport) (map[string]model.Status, error) {
	statuses := make(map[string]model.Status, len(records))
	for _, record := range records {
		key, ok := record.Key.(model.InvoiceKey)
		if !ok {
			continue
		}
		if _, done := statuses[key.String()]; done {
			continue
		}

		occurrences, err := s.tracking.OccurrencesByInvoice(ctx, key.Invoice, key.TaxID)
		if err != nil {
			if apierror.IsFatal(err) {
				return nil, err
			}
			statuses[key.String()] = model.StatusUnresolved
			report.LookupFailures = append(report.LookupFailures, model.LookupFailure{
				Key:      key.String(),
				RowIndex: record.RowIndex,
				Reason:   err.Error(),
			})
			logrus.WithError(err).WithField("key", key.String()).Warn("lookup failed, key resolves to \"-\"")
			continue
		}
		statuses[key.String()] = Classify(occurrences)
	}
	return statuses, nil
}

// writeStatuses writes the classified cells into the output column. Rows
// that were filtered out of the input keep whatever the column already
// holds: the write happens per contiguous block instead of clearing the
// whole column. With a header row the literal STATUS label lands in row 1.
func (s *Statusync) writeStatuses(ctx context.Context, viewCnf config.ViewConfig, cells []model.OutputCell, hasHeader bool) error {
	type entry struct {
		row   int
		value string
	}
	entries := make([]entry, 0, len(cells)+1)
	if hasHeader {
		entries = append(entries, entry{row: 1, value: model.StatusHeader})
	}
	for _, cell := range cells {
		if hasHeader && cell.RowIndex == 1 {
			continue
		}
		entries = append(entries, entry{row: cell.RowIndex, value: string(cell.Status)})
	}
	if len(entries) == 0 {
		return nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].row < entries[j].row })

	type block struct {
		start  int
		values [][]interface{}
	}
	var blocks []block
	for _, e := range entries {
		if n := len(blocks); n > 0 && blocks[n-1].start+len(blocks[n-1].values) == e.row {
			blocks[n-1].values = append(blocks[n-1].values, []interface{}{e.value})
			continue
		}
		blocks = append(blocks, block{start: e.row, values: [][]interface{}{{e.value}}})
	}

	for _, b := range blocks {
		blockRange, err := sheets.BlockRange(viewCnf.OutputRange, b.start, b.start+len(b.values)-1)
		if err != nil {
			return apierror.NewAPIError(apierror.ErrWrite, "invalid output range", err)
		}
		if err := s.spreadsheet.Write(ctx, viewCnf.SheetID, blockRange, b.values); err != nil {
			return err
		}
	}
	return nil
}
