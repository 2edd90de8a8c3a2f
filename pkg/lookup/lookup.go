// Package lookup matches accounts by name or alias for autocomplete-style
// pickers.
package lookup

import (
	"strings"

	"github.com/shunichi-ikebuchi/bookkeeping/pkg/ledger"
)

// Source supplies the accounts to search. *ledger.Engine satisfies it.
type Source interface {
	AccountRefs() []ledger.AccountRef
	AccountByCode(code int) (*ledger.Account, bool)
}

// Match returns the refs whose name or any alias contains query, ignoring
// case, in source order. An empty query matches everything.
func Match(refs []ledger.AccountRef, query string) []ledger.AccountRef {
	q := strings.ToLower(query)

	var result []ledger.AccountRef
	for _, ref := range refs {
		if matches(ref, q) {
			result = append(result, ref)
		}
	}
	return result
}

func matches(ref ledger.AccountRef, q string) bool {
	if strings.Contains(strings.ToLower(ref.Name), q) {
		return true
	}
	for _, alias := range ref.Aliases {
		if strings.Contains(strings.ToLower(alias), q) {
			return true
		}
	}
	return false
}

// Picker filters the accounts of a Source and reports the chosen account to
// a callback.
type Picker struct {
	source   Source
	onSelect func(*ledger.Account)

	candidates []ledger.AccountRef
}

// NewPicker creates a Picker. onSelect may be nil.
func NewPicker(source Source, onSelect func(*ledger.Account)) *Picker {
	return &Picker{source: source, onSelect: onSelect}
}

// Filter updates and returns the candidate list for query.
func (p *Picker) Filter(query string) []ledger.AccountRef {
	p.candidates = Match(p.source.AccountRefs(), query)
	return p.candidates
}

// Candidates returns the result of the last Filter call.
func (p *Picker) Candidates() []ledger.AccountRef {
	return p.candidates
}

// SelectIndex chooses the candidate at index i. It reports false when i is
// out of range.
func (p *Picker) SelectIndex(i int) (*ledger.Account, bool) {
	if i < 0 || i >= len(p.candidates) {
		return nil, false
	}
	return p.Select(p.candidates[i].Code)
}

// Select resolves code, clears the candidates and invokes the callback.
func (p *Picker) Select(code int) (*ledger.Account, bool) {
	acc, ok := p.source.AccountByCode(code)
	if !ok {
		return nil, false
	}
	p.candidates = nil
	if p.onSelect != nil {
		p.onSelect(acc)
	}
	return acc, true
}
