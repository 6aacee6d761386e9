package columns

import (
	"fmt"
	"strings"
)

// ID identifies one reportable metric. It never carries data itself.
type ID int

const (
	// Blank is the layout-only spacer column.
	Blank ID = iota
	Year
	Age
	Value
	RealValue
	ValueChange
	Return
	EffectiveReturn
	RealReturn
	Inflation
	Withdrawal
	WithdrawalRate
	LivingExpense
	Income
	TaxPaid
	TaxRate
	Fees

	// Aggregate-only metrics
	RunIndex
	YearsLasted
	Outcome

	numIDs
)

var symbols = [...]string{
	Blank:           "Blank",
	Year:            "Year",
	Age:             "Age",
	Value:           "Value",
	RealValue:       "RealValue",
	ValueChange:     "ValueChange",
	Return:          "Return",
	EffectiveReturn: "EffectiveReturn",
	RealReturn:      "RealReturn",
	Inflation:       "Inflation",
	Withdrawal:      "Withdrawal",
	WithdrawalRate:  "WithdrawalRate",
	LivingExpense:   "LivingExpense",
	Income:          "Income",
	TaxPaid:         "TaxPaid",
	TaxRate:         "TaxRate",
	Fees:            "Fees",
	RunIndex:        "RunIndex",
	YearsLasted:     "YearsLasted",
	Outcome:         "Outcome",
}

// String returns the symbolic name used in view definitions.
func (id ID) String() string {
	if id.Valid() {
		return symbols[id]
	}
	return fmt.Sprintf("ID(%d)", int(id))
}

// Valid reports whether id is a member of the enumeration.
func (id ID) Valid() bool { return id >= 0 && id < numIDs }

// IsBlank reports whether id is the spacer column.
func (id ID) IsBlank() bool { return id == Blank }

// All returns every non-blank ID in declaration order.
func All() []ID {
	ids := make([]ID, 0, int(numIDs)-1)
	for id := Blank + 1; id < numIDs; id++ {
		ids = append(ids, id)
	}
	return ids
}

// blankAliases are accepted in view definitions for spacer columns.
var blankAliases = map[string]bool{"": true, "-": true, "blank": true, "spacer": true, "_": true}

// Parse resolves a symbolic or display name to an ID (case-insensitive).
func Parse(name string) (ID, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if blankAliases[n] {
		return Blank, true
	}
	for id := Blank + 1; id < numIDs; id++ {
		if strings.ToLower(symbols[id]) == n || strings.ToLower(DescriptorFor(id).Name) == n {
			return id, true
		}
	}
	return Blank, false
}
