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
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/nthplatform/statusync/model"
)

const (
	exportNamePreventivos = "STATUS_PEDIDOS.xlsx"
	exportNameCobranca    = "STATUS_NF_ESTAB.xlsx"
)

// exportSnapshot writes the run's key → status mapping to a local XLSX
// workbook, one row per keyed input row. When the target file cannot be
// written (typically still open in Excel) a timestamped sibling is used.
func (s *Statusync) exportSnapshot(dir string, view View, records []model.RowRecord, statuses map[string]model.Status) (string, error) {
	var header []string
	var name string
	switch view {
	case ViewPreventivos:
		header = []string{"PEDIDO", "STATUS"}
		name = exportNamePreventivos
	case ViewCobranca:
		header = []string{"NF", "CNPJ", "STATUS"}
		name = exportNameCobranca
	}

	rows := make([][]string, 0, len(records))
	for _, record := range records {
		status := statuses[record.Key.String()]
		if status == "" {
			status = model.StatusUnresolved
		}
		switch key := record.Key.(type) {
		case model.OrderKey:
			rows = append(rows, []string{key.Order, string(status)})
		case model.InvoiceKey:
			rows = append(rows, []string{key.Invoice, key.TaxID, string(status)})
		}
	}

	return writeWorkbook(filepath.Join(dir, name), header, rows)
}

func writeWorkbook(path string, header []string, rows [][]string) (string, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logrus.Error(err)
		}
	}()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return "", err
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return "", err
		}
	}

	if err := f.SaveAs(path); err == nil {
		return path, nil
	}

	// The file is usually locked because someone has it open; save a
	// timestamped sibling instead of failing the run.
	ext := filepath.Ext(path)
	alt := fmt.Sprintf("%s_%s%s", strings.TrimSuffix(path, ext), time.Now().Format("20060102_150405"), ext)
	if err := f.SaveAs(alt); err != nil {
		return "", err
	}
	return alt, nil
}
