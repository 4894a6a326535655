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

package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnOf(t *testing.T) {
	tests := []struct {
		rangeSpec string
		tab       string
		column    string
		wantErr   bool
	}{
		{"RETORNO!K:K", "RETORNO", "K", false},
		{"PREVENTIVOS!B1:B20", "PREVENTIVOS", "B", false},
		{"TAB!AA10:AA99", "TAB", "AA", false},
		{"no-qualifier", "", "", true},
		{"TAB!123", "", "", true},
	}

	for _, tt := range tests {
		tab, column, err := ColumnOf(tt.rangeSpec)
		if tt.wantErr {
			assert.Error(t, err, "range %q", tt.rangeSpec)
			continue
		}
		require.NoError(t, err, "range %q", tt.rangeSpec)
		assert.Equal(t, tt.tab, tab)
		assert.Equal(t, tt.column, column)
	}
}

func TestBlockRange(t *testing.T) {
	blockRange, err := BlockRange("RETORNO!K:K", 2, 7)
	require.NoError(t, err)
	assert.Equal(t, "RETORNO!K2:K7", blockRange)

	blockRange, err = BlockRange("PREVENTIVOS!B:B", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "PREVENTIVOS!B1:B1", blockRange)

	_, err = BlockRange("bad-range", 1, 2)
	assert.Error(t, err)
}
