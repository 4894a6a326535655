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
	"sort"
	"strconv"
	"strings"
)

// Carrier occurrence codes that mean the shipment reached the customer or
// the order was cancelled. Everything else is noise for this reconciliation.
var (
	deliveredCodes = map[string]struct{}{
		"1": {}, "2": {}, "37": {}, "999": {},
	}
	cancelledCodes = map[string]struct{}{
		"25": {}, "102": {}, "203": {}, "303": {}, "325": {}, "327": {},
	}
)

// KindForCode maps a raw occurrence code onto its classification bucket.
func KindForCode(code string) OccurrenceKind {
	code = strings.TrimSpace(code)
	if _, ok := cancelledCodes[code]; ok {
		return OccurrenceCancelled
	}
	if _, ok := deliveredCodes[code]; ok {
		return OccurrenceDelivered
	}
	return OccurrenceOther
}

// RelevantOccurrenceCodes returns the full filter list sent to the carrier,
// comma-joined in numeric order.
func RelevantOccurrenceCodes() string {
	codes := make([]int, 0, len(deliveredCodes)+len(cancelledCodes))
	for code := range deliveredCodes {
		n, _ := strconv.Atoi(code)
		codes = append(codes, n)
	}
	for code := range cancelledCodes {
		n, _ := strconv.Atoi(code)
		codes = append(codes, n)
	}
	sort.Ints(codes)

	parts := make([]string, len(codes))
	for i, n := range codes {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
