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

import "github.com/nthplatform/statusync/model"

// Classify reduces a key's occurrence history to its normalized status.
// Cancellation is terminal: a cancelled order is never reported as
// delivered, no matter what else the carrier recorded. With no cancelled
// and no delivered occurrence the status stays "-".
func Classify(occurrences []model.Occurrence) model.Status {
	delivered := false
	for _, occurrence := range occurrences {
		switch occurrence.Kind {
		case model.OccurrenceCancelled:
			return model.StatusCancelled
		case model.OccurrenceDelivered:
			delivered = true
		}
	}
	if delivered {
		return model.StatusDelivered
	}
	return model.StatusUnresolved
}
