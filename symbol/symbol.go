// Package symbol manages symbols. Symbols are deduped identifier strings
// represented as small integers, so that environment lookups are cheap int
// compares instead of string compares. Struct/impl member names are compared
// as strings.
package symbol

import (
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/must"

	"github.com/ember-lang/emberc/hash"
)

// ID represents an interned symbol.
type ID int32

// Invalid is the sentinel for "no symbol".
const Invalid = ID(0)

type idInfo struct {
	name string
	hash hash.Hash
}

// table is the process-wide intern table. The compiler is single-threaded
// (see the concurrency model in the design doc), so a plain map protected by
// nothing fancier than single-threaded discipline is enough; the teacher's
// lock-free rcu_map existed only to support cross-machine symbol transmission,
// which this front end never does.
type table struct {
	ids  []idInfo
	byID map[string]ID
}

var symbols = newTable()

func newTable() *table {
	return &table{ids: []idInfo{{name: "(invalid)"}}, byID: map[string]ID{}}
}

// Intern finds or creates an ID for the given string.
func Intern(name string) ID {
	must.Truef(name != "", "symbol: empty name")
	if id, ok := symbols.byID[name]; ok {
		return id
	}
	id := ID(len(symbols.ids))
	symbols.ids = append(symbols.ids, idInfo{name: name, hash: hash.String(name)})
	symbols.byID[name] = id
	return id
}

// Str returns the interned name, or "(invalid)" for Invalid. Panics if id
// was never interned: this is an invariant violation, not a user-facing
// error.
func (id ID) Str() string {
	if int(id) >= len(symbols.ids) || id < 0 {
		log.Panicf("symbol: id %d not found", id)
	}
	return symbols.ids[id].name
}

// Hash returns the content hash of the symbol's name.
func (id ID) Hash() hash.Hash {
	return symbols.ids[id].hash
}
