package http

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"kyccli/pkg/contracts/domain"
)

// validate is the shared request validator instance.
var validate = validator.New()

// FilterRequest is the wire form of a filter specification. Dates travel as
// ISO day strings; categorical fields as exact values from the options lists.
type FilterRequest struct {
	DateBasis  string `json:"date_basis" validate:"omitempty,max=64"`
	From       string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To         string `json:"to" validate:"omitempty,datetime=2006-01-02"`
	Division   string `json:"division" validate:"omitempty,max=256"`
	Office     string `json:"office" validate:"omitempty,max=256"`
	Status     string `json:"status" validate:"omitempty,max=256"`
	ScanStatus string `json:"scan_status" validate:"omitempty,max=256"`
}

// ToSpec validates the request and converts it to a domain filter spec.
func (req FilterRequest) ToSpec() (domain.FilterSpec, error) {
	if err := validate.Struct(req); err != nil {
		return domain.FilterSpec{}, err
	}

	spec := domain.FilterSpec{
		DateBasis:  req.DateBasis,
		Division:   req.Division,
		Office:     req.Office,
		Status:     req.Status,
		ScanStatus: req.ScanStatus,
	}
	if err := spec.Validate(); err != nil {
		return domain.FilterSpec{}, err
	}

	var err error
	if spec.From, err = parseDay(req.From); err != nil {
		return domain.FilterSpec{}, err
	}
	if spec.To, err = parseDay(req.To); err != nil {
		return domain.FilterSpec{}, err
	}
	return spec, nil
}

func parseDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return &t, nil
}
