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
	"fmt"
	"strings"

	"github.com/nthplatform/statusync/model"
)

// Header vocabulary the source sheets actually use. Row 1 matching one of
// these is a header row, not data.
var (
	orderHeaders   = map[string]struct{}{"pedido": {}, "pedidos": {}}
	invoiceHeaders = map[string]struct{}{"nf": {}, "nota": {}, "nota fiscal": {}, "numero": {}}
	taxIDHeaders   = map[string]struct{}{"cnpj": {}, "estabelecimento": {}}
)

// ParseOrderRows turns the raw PREVENTIVOS input range into row records
// keyed by order number. Blank keys are skipped; row indices stay 1-based
// physical sheet positions. The second return reports whether row 1 was a
// header row.
func ParseOrderRows(values [][]interface{}) ([]model.RowRecord, bool) {
	hasHeader := false
	if len(values) > 0 {
		if _, ok := orderHeaders[strings.ToLower(strings.TrimSpace(cellString(values[0], 0)))]; ok {
			hasHeader = true
		}
	}

	records := make([]model.RowRecord, 0, len(values))
	for i, row := range values {
		if hasHeader && i == 0 {
			continue
		}
		order := model.NormalizeDocumentNumber(cellString(row, 0))
		key := model.OrderKey{Order: order}
		if key.IsZero() {
			continue
		}
		records = append(records, model.RowRecord{RowIndex: i + 1, Key: key})
	}
	return records, hasHeader
}

// ParseInvoiceRows turns the raw COBRANCA input range into row records
// keyed by invoice number + shipper tax id. Rows missing either half of
// the key are skipped.
func ParseInvoiceRows(values [][]interface{}) ([]model.RowRecord, bool) {
	hasHeader := false
	if len(values) > 0 {
		invoiceCell := strings.ToLower(strings.TrimSpace(cellString(values[0], 0)))
		taxIDCell := strings.ToLower(strings.TrimSpace(cellString(values[0], 1)))
		_, invoiceMatch := invoiceHeaders[invoiceCell]
		_, taxIDMatch := taxIDHeaders[taxIDCell]
		hasHeader = invoiceMatch || taxIDMatch
	}

	records := make([]model.RowRecord, 0, len(values))
	for i, row := range values {
		if hasHeader && i == 0 {
			continue
		}
		key := model.InvoiceKey{
			Invoice: model.NormalizeDocumentNumber(cellString(row, 0)),
			TaxID:   model.NormalizeTaxID(cellString(row, 1)),
		}
		if key.IsZero() {
			continue
		}
		records = append(records, model.RowRecord{RowIndex: i + 1, Key: key})
	}
	return records, hasHeader
}

// cellString reads one cell of a row as a trimmed string. Short rows and
// non-string cells are handled the way the Sheets API hands them back.
func cellString(row []interface{}, idx int) string {
	if idx >= len(row) || row[idx] == nil {
		return ""
	}
	switch v := row[idx].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}
