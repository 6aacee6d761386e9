// Package views maps named report views to ordered column lists.
package views

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rpgo/simreport/internal/columns"
	"github.com/samber/lo"
)

// ErrConfiguration is matched by every *ConfigurationError.
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError reports an unknown view or a malformed column reference.
type ConfigurationError struct {
	View   string
	Column string
}

func (e *ConfigurationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("view %q: unknown column %q", e.View, e.Column)
	}
	return fmt.Sprintf("unknown view %q", e.View)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// DefaultView is used when a request names no view.
const DefaultView = "summary"

var builtIn = map[string][]columns.ID{
	"summary": {
		columns.Year, columns.Age, columns.Blank,
		columns.Value, columns.RealValue, columns.ValueChange, columns.Blank,
		columns.Withdrawal, columns.WithdrawalRate, columns.Income,
	},
	"detailed": {
		columns.Year, columns.Age, columns.Blank,
		columns.Value, columns.RealValue, columns.ValueChange,
		columns.Return, columns.EffectiveReturn, columns.RealReturn, columns.Inflation, columns.Blank,
		columns.Withdrawal, columns.WithdrawalRate, columns.LivingExpense, columns.Income,
		columns.TaxPaid, columns.TaxRate, columns.Fees,
	},
	"cashflow": {
		columns.Year, columns.Age, columns.Blank,
		columns.LivingExpense, columns.Income, columns.Withdrawal, columns.TaxPaid, columns.TaxRate, columns.Fees,
	},
	"returns": {
		columns.Year, columns.Blank,
		columns.Return, columns.Inflation, columns.EffectiveReturn, columns.RealReturn,
	},
	"minimal": {columns.Year, columns.Value},
}

// Resolver holds named views. It is populated before use and only read
// afterwards, so concurrent Resolve calls are safe.
type Resolver struct {
	views map[string][]columns.ID
}

// New returns an empty resolver.
func New() *Resolver {
	return &Resolver{views: make(map[string][]columns.ID)}
}

// Default returns a resolver carrying the built-in views.
func Default() *Resolver {
	r := New()
	for name, ids := range builtIn {
		r.Register(name, ids)
	}
	return r
}

// Register adds or replaces a view. The slice is copied.
func (r *Resolver) Register(name string, ids []columns.ID) {
	r.views[name] = append([]columns.ID(nil), ids...)
}

// Resolve returns the ordered columns of the named view. Spacers are
// returned as columns.Blank.
func (r *Resolver) Resolve(name string) ([]columns.ID, error) {
	ids, ok := r.views[name]
	if !ok {
		return nil, &ConfigurationError{View: name}
	}
	return append([]columns.ID(nil), ids...), nil
}

// Has reports whether a view is registered.
func (r *Resolver) Has(name string) bool {
	_, ok := r.views[name]
	return ok
}

// Names returns the registered view names in sorted order.
func (r *Resolver) Names() []string {
	names := lo.Keys(r.views)
	sort.Strings(names)
	return names
}

// FromSpec registers views given as column names. Every view is parsed
// before any is registered, so a bad entry leaves the resolver unchanged.
func (r *Resolver) FromSpec(defs map[string][]string) error {
	parsed := make(map[string][]columns.ID, len(defs))
	for _, name := range lo.Keys(defs) {
		ids, err := ParseColumns(name, defs[name])
		if err != nil {
			return err
		}
		parsed[name] = ids
	}
	for name, ids := range parsed {
		r.Register(name, ids)
	}
	return nil
}

// ParseColumns converts column names to IDs for the named view.
func ParseColumns(view string, names []string) ([]columns.ID, error) {
	if len(names) == 0 {
		return nil, &ConfigurationError{View: view, Column: "(none)"}
	}
	ids := make([]columns.ID, 0, len(names))
	for _, n := range names {
		id, ok := columns.Parse(n)
		if !ok {
			return nil, &ConfigurationError{View: view, Column: n}
		}
		ids = append(ids, id)
	}
	return ids, nil
}
