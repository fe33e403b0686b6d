package project

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/amirhosseinghanipour/launchpad/internal/domain"
	domerrors "github.com/amirhosseinghanipour/launchpad/internal/domain/errors"
)

// Form field names accepted by the intake.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldMRR         = "mrr"
	FieldActiveUsers = "activeUsers"
	FieldStatus      = "status"
)

// RawFields is untrusted form input keyed by field name.
type RawFields map[string]string

// ValidationError reports a rejected intake field.
type ValidationError struct {
	Field  string
	Reason error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Reason }

var validate = validator.New()

// ValidateIntake turns raw form input into a draft. A missing name is the only
// rejection; bad numbers become 0 and unknown statuses become ACTIVE.
// Owner fields in the input are ignored.
func ValidateIntake(raw RawFields) (*domain.ProjectDraft, error) {
	name := strings.TrimSpace(raw[FieldName])
	if err := validate.Var(name, "required"); err != nil {
		return nil, &ValidationError{Field: FieldName, Reason: domerrors.ErrMissingName}
	}
	var description *string
	if d := strings.TrimSpace(raw[FieldDescription]); d != "" {
		description = &d
	}
	return &domain.ProjectDraft{
		Name:        name,
		Description: description,
		MRR:         wholeNonNegative(raw[FieldMRR]),
		ActiveUsers: wholeNonNegative(raw[FieldActiveUsers]),
		Status:      intakeStatus(raw[FieldStatus]),
	}, nil
}

// wholeNonNegative parses s like a browser's Number() and rounds it to the nearest whole unit.
// Decimal and unsigned 0x/0b/0o literals are accepted. Unparsable, non-finite, negative
// or out-of-range values give 0.
func wholeNonNegative(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if base := radixPrefix(s); base != 0 {
		n, err := strconv.ParseUint(s[2:], base, 64)
		if err != nil || n > math.MaxInt64 {
			return 0
		}
		return int64(n)
	}
	// strconv also takes hex floats and digit separators; Number() takes neither.
	if strings.ContainsAny(s, "xX_") {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	r := math.Round(f)
	if r >= math.MaxInt64 {
		return 0
	}
	return int64(r)
}

func radixPrefix(s string) int {
	if len(s) < 2 || s[0] != '0' {
		return 0
	}
	switch s[1] {
	case 'x', 'X':
		return 16
	case 'b', 'B':
		return 2
	case 'o', 'O':
		return 8
	}
	return 0
}

func intakeStatus(s string) domain.ProjectStatus {
	st, ok := domain.ParseProjectStatus(s)
	if !ok {
		return domain.ProjectStatusActive
	}
	return st
}
