package common

import "fmt"

// DateRange is an inclusive [From, To] calendar interval
type DateRange struct {
	From Date
	To   Date
}

// ParseDateRange validates the optional from/to list parameters.
// Both absent yields nil (no filtering); only one present is an error.
func ParseDateRange(from, to string, hasFrom, hasTo bool) (*DateRange, error) {
	if !hasFrom && !hasTo {
		return nil, nil
	}
	if hasFrom != hasTo {
		return nil, NewValidationError("", "'from' and 'to' params must come together")
	}

	fromDate, err := ParseDate(from)
	if err != nil {
		return nil, NewValidationError("from", fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", from))
	}
	toDate, err := ParseDate(to)
	if err != nil {
		return nil, NewValidationError("to", fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", to))
	}
	return &DateRange{From: fromDate, To: toDate}, nil
}
