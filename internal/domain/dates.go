package domain

import (
	"fmt"

	"github.com/prmhq/prm-backend/internal/common"
)

func dateString(d *common.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func optionalDate(field, s string) (*common.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := requiredDate(field, s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func requiredDate(field, s string) (common.Date, error) {
	d, err := common.ParseDate(s)
	if err != nil {
		return common.Date{}, common.NewValidationError(field, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s))
	}
	return d, nil
}
