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

// Package sheets wraps the Google Sheets v4 API behind the small surface
// the reconciliation pipelines need: read a rectangular range, write one.
package sheets

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/nthplatform/statusync/internal/apierror"
)

// Service is the spreadsheet collaborator. The production implementation
// talks to Google Sheets; tests swap in an in-memory fake.
type Service interface {
	Read(ctx context.Context, sheetID, readRange string) ([][]interface{}, error)
	Write(ctx context.Context, sheetID, writeRange string, values [][]interface{}) error
}

type googleService struct {
	svc *gsheets.Service
}

// NewService builds a Sheets client from a service-account credential file.
func NewService(ctx context.Context, credentialsPath string) (Service, error) {
	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(gsheets.SpreadsheetsScope))
	if err != nil {
		return nil, errors.Wrap(err, "could not create sheets service")
	}
	return &googleService{svc: svc}, nil
}

func (g *googleService) Read(ctx context.Context, sheetID, readRange string) ([][]interface{}, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(sheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrSourceRead,
			fmt.Sprintf("could not read range %s", readRange), err)
	}
	return resp.Values, nil
}

func (g *googleService) Write(ctx context.Context, sheetID, writeRange string, values [][]interface{}) error {
	body := &gsheets.ValueRange{Values: values}
	_, err := g.svc.Spreadsheets.Values.Update(sheetID, writeRange, body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrWrite,
			fmt.Sprintf("could not write range %s", writeRange), err)
	}
	return nil
}

// ColumnOf extracts the tab name and the first column letters from a range
// spec like "RETORNO!K:K" or "PREVENTIVOS!B1:B20".
func ColumnOf(rangeSpec string) (tab string, column string, err error) {
	parts := strings.SplitN(rangeSpec, "!", 2)
	if len(parts) != 2 {
		return "", "", errors.Errorf("range %q is not sheet-qualified", rangeSpec)
	}
	tab = parts[0]
	cell := strings.SplitN(parts[1], ":", 2)[0]
	for _, ch := range cell {
		if !unicode.IsLetter(ch) {
			break
		}
		column += string(ch)
	}
	if column == "" {
		return "", "", errors.Errorf("range %q has no column letters", rangeSpec)
	}
	return tab, column, nil
}

// BlockRange builds the A1 range covering rows startRow..endRow of the
// output column described by rangeSpec.
func BlockRange(rangeSpec string, startRow, endRow int) (string, error) {
	tab, column, err := ColumnOf(rangeSpec)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s!%s%d:%s%d", tab, column, startRow, column, endRow), nil
}
