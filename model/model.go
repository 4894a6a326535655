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
	"strings"

	"github.com/google/uuid"
)

// GenerateUUIDWithSuffix generates a UUID with a given module name as a suffix.
// This is useful for creating unique identifiers with context-specific prefixes.
func GenerateUUIDWithSuffix(module string) string {
	id := uuid.New()
	uuidStr := id.String()
	idWithSuffix := fmt.Sprintf("%s_%s", module, uuidStr)
	return idWithSuffix
}

// NormalizeDocumentNumber cleans up an order or invoice number read from a
// spreadsheet cell. Sheets hand numeric cells back with a trailing ".0" when
// the column was ever formatted as float, and stray "nan" strings appear for
// cells that were cleared by a formula.
func NormalizeDocumentNumber(value string) string {
	text := strings.TrimSpace(value)
	if strings.EqualFold(text, "nan") {
		return ""
	}
	if strings.HasSuffix(text, ".0") && isDigits(text[:len(text)-2]) {
		return text[:len(text)-2]
	}
	return text
}

// NormalizeTaxID reduces a CNPJ to its digits and left-pads to the canonical
// 14 positions. Spreadsheets routinely drop leading zeros.
func NormalizeTaxID(value string) string {
	var b strings.Builder
	for _, ch := range value {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if len(digits) < 14 {
		return strings.Repeat("0", 14-len(digits)) + digits
	}
	return digits
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
