package project

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/launchpad/internal/domain"
	domerrors "github.com/amirhosseinghanipour/launchpad/internal/domain/errors"
)

func TestValidateIntake_MissingName(t *testing.T) {
	for _, name := range []string{"", " ", "\t\n", "   \r\n  "} {
		draft, err := ValidateIntake(RawFields{FieldName: name, FieldMRR: "10"})
		require.Error(t, err, "name %q", name)
		assert.Nil(t, draft)
		assert.True(t, errors.Is(err, domerrors.ErrMissingName))
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, FieldName, verr.Field)
	}
}

func TestValidateIntake_NameIsTrimmed(t *testing.T) {
	for raw, want := range map[string]string{
		"Site":             "Site",
		"  Site  ":         "Site",
		"\tMarketing v2\n": "Marketing v2",
		"a  b":             "a  b",
	} {
		draft, err := ValidateIntake(RawFields{FieldName: raw})
		require.NoError(t, err)
		assert.Equal(t, want, draft.Name)
	}
}

func TestValidateIntake_Description(t *testing.T) {
	draft, err := ValidateIntake(RawFields{FieldName: "X", FieldDescription: "   "})
	require.NoError(t, err)
	assert.Nil(t, draft.Description)

	draft, err = ValidateIntake(RawFields{FieldName: "X"})
	require.NoError(t, err)
	assert.Nil(t, draft.Description)

	draft, err = ValidateIntake(RawFields{FieldName: "X", FieldDescription: "  notes "})
	require.NoError(t, err)
	require.NotNil(t, draft.Description)
	assert.Equal(t, "notes", *draft.Description)
}

func TestValidateIntake_NumbersCoerceToZero(t *testing.T) {
	bad := []string{"", "-5", "-0.6", "abc", "NaN", "Inf", "+Inf", "-Inf", "Infinity", "1e400", "12abc", "9.3e18"}
	for _, raw := range bad {
		draft, err := ValidateIntake(RawFields{FieldName: "X", FieldMRR: raw, FieldActiveUsers: raw})
		require.NoError(t, err)
		assert.Equal(t, int64(0), draft.MRR, "mrr %q", raw)
		assert.Equal(t, int64(0), draft.ActiveUsers, "activeUsers %q", raw)
	}
}

func TestValidateIntake_NumbersRound(t *testing.T) {
	cases := map[string]int64{
		"0":    0,
		"1200": 1200,
		" 50 ": 50,
		"10.4": 10,
		"10.5": 11,
		"0.49": 0,
		"1e3":  1000,
		"-0":   0,
		"007":  7,
		"2.5":  3,
	}
	for raw, want := range cases {
		draft, err := ValidateIntake(RawFields{FieldName: "X", FieldMRR: raw, FieldActiveUsers: raw})
		require.NoError(t, err)
		assert.Equal(t, want, draft.MRR, "mrr %q", raw)
		assert.Equal(t, want, draft.ActiveUsers, "activeUsers %q", raw)
	}
}

func TestValidateIntake_RadixLiterals(t *testing.T) {
	cases := map[string]int64{
		"0x10":               16,
		"0X1f":               31,
		"0b101":              5,
		"0B11":               3,
		"0o7":                7,
		"0O17":               15,
		" 0xff ":             255,
		"0x1p4":              0,
		"+0x1p4":             0,
		"-0x1p4":             0,
		"+0x10":              0,
		"-0x10":              0,
		"0x":                 0,
		"0xg":                0,
		"0b2":                0,
		"0o8":                0,
		"0x1.8":              0,
		"0x_10":              0,
		"1_000":              0,
		"0x8000000000000000": 0,
	}
	for raw, want := range cases {
		draft, err := ValidateIntake(RawFields{FieldName: "X", FieldMRR: raw, FieldActiveUsers: raw})
		require.NoError(t, err)
		assert.Equal(t, want, draft.MRR, "mrr %q", raw)
		assert.Equal(t, want, draft.ActiveUsers, "activeUsers %q", raw)
	}
}

func TestValidateIntake_Status(t *testing.T) {
	for _, st := range domain.ProjectStatuses {
		draft, err := ValidateIntake(RawFields{FieldName: "X", FieldStatus: string(st)})
		require.NoError(t, err)
		assert.Equal(t, st, draft.Status)
	}
	for _, raw := range []string{"", "active", "paused", " TRIALING", "ARCHIVED", "ACTIVE;DROP"} {
		draft, err := ValidateIntake(RawFields{FieldName: "X", FieldStatus: raw})
		require.NoError(t, err)
		assert.Equal(t, domain.ProjectStatusActive, draft.Status, "status %q", raw)
	}
}

func TestValidateIntake_IgnoresOwnerFields(t *testing.T) {
	draft, err := ValidateIntake(RawFields{
		FieldName: "X",
		"userId":  "00000000-0000-0000-0000-000000000001",
		"ownerId": "someone-else",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectDraft{Name: "X", Status: domain.ProjectStatusActive}, *draft)
}

func TestValidateIntake_ScenarioD(t *testing.T) {
	draft, err := ValidateIntake(RawFields{FieldName: "X", FieldMRR: "-5", FieldActiveUsers: "abc"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), draft.MRR)
	assert.Equal(t, int64(0), draft.ActiveUsers)
}
