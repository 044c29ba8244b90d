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
	"sync"

	"github.com/google/uuid"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// systemSymbols holds the fixed Ion 1.0 system symbol table, ids 1-9. Id 0
// is the reserved "unknown text" symbol ($0) and is handled separately.
var systemSymbols = []string{
	"$ion",
	"$ion_1_0",
	"$ion_symbol_table",
	"name",
	"version",
	"imports",
	"symbols",
	"max_id",
	"$ion_shared_symbol_table",
}

// SystemSymbolText returns the text of a system symbol id (0-9).
func SystemSymbolText(id int) (string, bool) {
	if id == 0 {
		return "$0", true
	}
	if id >= 1 && id <= len(systemSymbols) {
		return systemSymbols[id-1], true
	}
	return "", false
}

// SharedSymbolTable is an externally registered, versioned, immutable
// symbol table, imported by name and version into a local symbol table.
type SharedSymbolTable struct {
	Name    string
	Version int
	Symbols []string
}

// MaxID returns the highest local id this shared table assigns.
func (s *SharedSymbolTable) MaxID() int { return len(s.Symbols) }

// Text returns the symbol text at the given 1-based offset within this
// table.
func (s *SharedSymbolTable) Text(offset int) (string, bool) {
	if offset < 1 || offset > len(s.Symbols) {
		return "", false
	}
	return s.Symbols[offset-1], true
}

// Catalog is a registry of shared symbol tables, safe for concurrent use.
// Generation changes every time a table is registered, so long-lived
// consumers can cheaply notice that previously-unresolved imports might
// now resolve.
type Catalog struct {
	mu         sync.RWMutex
	tables     map[string]map[int]*SharedSymbolTable
	Generation uuid.UUID
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{tables: make(map[string]map[int]*SharedSymbolTable), Generation: uuid.New()}
}

// RegisterShared adds a shared symbol table to the catalog. Registering the
// same (name, version) twice is an error: shared tables are immutable once
// published.
func (c *Catalog) RegisterShared(t *SharedSymbolTable) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	versions, ok := c.tables[t.Name]
	if !ok {
		versions = make(map[int]*SharedSymbolTable)
		c.tables[t.Name] = versions
	}
	if _, exists := versions[t.Version]; exists {
		return &TableVersionAlreadyThereError{Name: t.Name, Version: t.Version}
	}
	versions[t.Version] = t
	c.Generation = uuid.New()
	return nil
}

// Resolve returns the exact (name, version) if registered, else the
// highest registered version of that name, else !ok.
func (c *Catalog) Resolve(name string, version int) (*SharedSymbolTable, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	versions, ok := c.tables[name]
	if !ok || len(versions) == 0 {
		return nil, false
	}
	if t, ok := versions[version]; ok {
		return t, true
	}
	best := -1
	for v := range versions {
		if v > best {
			best = v
		}
	}
	return versions[best], true
}

// ImportDescriptor is the (name, version, max_id) triple a local symbol
// table records for each import, whether or not the shared table it names
// was actually found in the catalog.
type ImportDescriptor struct {
	Name     string
	Version  int
	MaxID    int
	resolved *SharedSymbolTable
}

// LocalSymbolTable is the append-only symbol table in effect for a span of
// a stream: the system table, followed by zero or more imports, followed
// by symbols added locally (either declared up front or interned by an
// encoder as it writes new symbol text).
type LocalSymbolTable struct {
	imports  []ImportDescriptor
	symbols  []string
	textToID map[string]int
}

// Imports returns the table's import descriptors, in declaration order.
func (lst *LocalSymbolTable) Imports() []ImportDescriptor {
	return slices.Clone(lst.imports)
}

// LocalSymbols returns the table's own (non-imported) symbols, in the
// order they were added.
func (lst *LocalSymbolTable) LocalSymbols() []string {
	return slices.Clone(lst.symbols)
}

// MaxID returns the highest id this table currently assigns.
func (lst *LocalSymbolTable) MaxID() int {
	total := len(systemSymbols)
	for _, imp := range lst.imports {
		total += imp.MaxID
	}
	return total + len(lst.symbols)
}

// Text resolves an id to its symbol text.
func (lst *LocalSymbolTable) Text(id int) (string, bool) {
	if id <= len(systemSymbols) {
		return SystemSymbolText(id)
	}
	offset := id - len(systemSymbols)
	for _, imp := range lst.imports {
		if offset <= imp.MaxID {
			if imp.resolved == nil {
				return "", false
			}
			return imp.resolved.Text(offset)
		}
		offset -= imp.MaxID
	}
	if offset >= 1 && offset <= len(lst.symbols) {
		return lst.symbols[offset-1], true
	}
	return "", false
}

// ID resolves symbol text to its id, following standard import precedence:
// the first table (scanning imports in order, then local symbols) to
// define the text wins.
func (lst *LocalSymbolTable) ID(text string) (int, bool) {
	id, ok := lst.textToID[text]
	return id, ok
}

// Intern returns text's existing id if already present, or appends it as a
// new local symbol and returns the newly assigned id. This is how an
// Encoder grows the table as it writes values that use symbol text it
// hasn't seen yet.
func (lst *LocalSymbolTable) Intern(text string) int {
	if id, ok := lst.textToID[text]; ok {
		return id
	}
	id := lst.MaxID() + 1
	lst.symbols = append(lst.symbols, text)
	if lst.textToID == nil {
		lst.textToID = make(map[string]int)
	}
	lst.textToID[text] = id
	return id
}

// Clone returns a deep copy of lst.
func (lst *LocalSymbolTable) Clone() *LocalSymbolTable {
	return &LocalSymbolTable{
		imports:  slices.Clone(lst.imports),
		symbols:  slices.Clone(lst.symbols),
		textToID: maps.Clone(lst.textToID),
	}
}

// SymbolTableBuilder assembles a LocalSymbolTable from a sequence of
// imports and locally declared symbols, resolving each import against a
// Catalog as it goes.
type SymbolTableBuilder struct {
	catalog *Catalog
	imports []ImportDescriptor
	symbols []string
	err     error
}

// NewSymbolTableBuilder starts a builder that resolves imports against
// catalog. A nil catalog is valid; every import is then treated as
// not-found and must supply an explicit max_id.
func NewSymbolTableBuilder(catalog *Catalog) *SymbolTableBuilder {
	return &SymbolTableBuilder{catalog: catalog}
}

// Import adds an import. The "$ion" name is the system table and is always
// ignored, per the directive format. maxID < 0 means the directive did not
// specify max_id; if the shared table also can't be resolved (not
// registered, or no catalog at all), Build will report
// MaxIdNeededWhenImportingANotFoundSharedTableError. An explicit maxID of 0
// is legal and imports zero symbols.
func (b *SymbolTableBuilder) Import(name string, version int, maxID int) *SymbolTableBuilder {
	if name == "$ion" {
		return b
	}

	desc := ImportDescriptor{Name: name, Version: version, MaxID: maxID}
	if desc.MaxID < 0 {
		desc.MaxID = 0
	}
	if b.catalog != nil {
		if resolved, ok := b.catalog.Resolve(name, version); ok {
			desc.resolved = resolved
			if maxID < 0 {
				desc.MaxID = resolved.MaxID()
			} else if maxID < resolved.MaxID() {
				desc.resolved = &SharedSymbolTable{Name: resolved.Name, Version: resolved.Version, Symbols: resolved.Symbols[:maxID]}
			}
		}
	}
	if desc.resolved == nil && maxID < 0 {
		b.err = &MaxIdNeededWhenImportingANotFoundSharedTableError{Name: name, Version: version}
	}
	b.imports = append(b.imports, desc)
	return b
}

// Symbol adds a locally declared symbol.
func (b *SymbolTableBuilder) Symbol(text string) *SymbolTableBuilder {
	b.symbols = append(b.symbols, text)
	return b
}

// Build finishes the table, or returns the first error encountered while
// resolving imports.
func (b *SymbolTableBuilder) Build() (*LocalSymbolTable, error) {
	if b.err != nil {
		return nil, b.err
	}
	lst := &LocalSymbolTable{
		imports: slices.Clone(b.imports),
		symbols: slices.Clone(b.symbols),
	}
	lst.reindex()
	return lst, nil
}

func (lst *LocalSymbolTable) reindex() {
	idx := make(map[string]int, lst.MaxID())
	for i, s := range systemSymbols {
		idx[s] = i + 1
	}

	next := len(systemSymbols) + 1
	for _, imp := range lst.imports {
		if imp.resolved != nil {
			for i, s := range imp.resolved.Symbols {
				if _, exists := idx[s]; !exists {
					idx[s] = next + i
				}
			}
		}
		next += imp.MaxID
	}

	for i, s := range lst.symbols {
		if _, exists := idx[s]; !exists {
			idx[s] = next + i
		}
	}

	lst.textToID = idx
}
