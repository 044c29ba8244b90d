/*
 * Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License").
 * You may not use this file except in compliance with the License.
 * A copy of the License is located at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * or in the "license" file accompanying this file. This file is distributed
 * on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
 * express or implied. See the License for the specific language governing
 * permissions and limitations under the License.
 */

package ion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemSymbolText(t *testing.T) {
	text, ok := SystemSymbolText(0)
	require.True(t, ok)
	assert.Equal(t, "$0", text)

	text, ok = SystemSymbolText(3)
	require.True(t, ok)
	assert.Equal(t, "$ion_symbol_table", text)

	_, ok = SystemSymbolText(100)
	assert.False(t, ok)
}

func TestLocalSymbolTableInternAssignsSequentialIDs(t *testing.T) {
	lst, err := NewSymbolTableBuilder(nil).Build()
	require.NoError(t, err)

	base := lst.MaxID()
	first := lst.Intern("foo")
	second := lst.Intern("bar")
	again := lst.Intern("foo")

	assert.Equal(t, base+1, first)
	assert.Equal(t, base+2, second)
	assert.Equal(t, first, again) // interning existing text doesn't grow the table
	assert.Equal(t, base+2, lst.MaxID())
}

func TestLocalSymbolTableTextResolvesSystemAndLocal(t *testing.T) {
	lst, err := NewSymbolTableBuilder(nil).Build()
	require.NoError(t, err)
	id := lst.Intern("widget")

	text, ok := lst.Text(id)
	require.True(t, ok)
	assert.Equal(t, "widget", text)

	text, ok = lst.Text(1)
	require.True(t, ok)
	assert.Equal(t, "$ion", text)
}

func TestCatalogResolveExactAndLatest(t *testing.T) {
	cat := NewCatalog()
	require.NoError(t, cat.RegisterShared(&SharedSymbolTable{Name: "foo", Version: 1, Symbols: []string{"a"}}))
	require.NoError(t, cat.RegisterShared(&SharedSymbolTable{Name: "foo", Version: 2, Symbols: []string{"a", "b"}}))

	exact, ok := cat.Resolve("foo", 1)
	require.True(t, ok)
	assert.Equal(t, 1, exact.MaxID())

	latest, ok := cat.Resolve("foo", 99)
	require.True(t, ok)
	assert.Equal(t, 2, latest.MaxID())

	_, ok = cat.Resolve("bar", 1)
	assert.False(t, ok)
}

func TestCatalogRejectsDuplicateVersion(t *testing.T) {
	cat := NewCatalog()
	require.NoError(t, cat.RegisterShared(&SharedSymbolTable{Name: "foo", Version: 1}))
	err := cat.RegisterShared(&SharedSymbolTable{Name: "foo", Version: 1})
	var target *TableVersionAlreadyThereError
	assert.ErrorAs(t, err, &target)
}

func TestSymbolTableBuilderImportResolvesAgainstCatalog(t *testing.T) {
	cat := NewCatalog()
	require.NoError(t, cat.RegisterShared(&SharedSymbolTable{Name: "foo", Version: 1, Symbols: []string{"a", "b"}}))

	lst, err := NewSymbolTableBuilder(cat).Import("foo", 1, -1).Build()
	require.NoError(t, err)
	require.Len(t, lst.Imports(), 1)
	assert.Equal(t, 2, lst.Imports()[0].MaxID)

	text, ok := lst.Text(len(systemSymbols) + 1)
	require.True(t, ok)
	assert.Equal(t, "a", text)
}

func TestSymbolTableBuilderUnresolvedImportNeedsMaxID(t *testing.T) {
	_, err := NewSymbolTableBuilder(nil).Import("unknown", 1, -1).Build()
	var target *MaxIdNeededWhenImportingANotFoundSharedTableError
	assert.ErrorAs(t, err, &target)
}

func TestSymbolTableBuilderImportIgnoresIon(t *testing.T) {
	lst, err := NewSymbolTableBuilder(nil).Import("$ion", 1, -1).Build()
	require.NoError(t, err)
	assert.Empty(t, lst.Imports())
}
