package validation

import (
	"testing"
	"time"

	"github.com/sangkips/tienda-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDNumber(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr error
	}{
		{name: "valid", value: "1710034065"},
		{name: "valid with leading zero", value: "0102030400"},
		{name: "valid sequential", value: "1234567897"},
		{name: "wrong check digit", value: "1710034066", wantErr: ErrIDNumberInvalid},
		{name: "too short", value: "171003406", wantErr: ErrIDNumberFormat},
		{name: "letters", value: "17100340AB", wantErr: ErrIDNumberFormat},
		{name: "empty", value: "", wantErr: ErrIDNumberFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := IDNumber(tt.value)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPhone(t *testing.T) {
	assert.NoError(t, Phone("0991234567"))
	assert.NoError(t, Phone("0221234567"))
	assert.ErrorIs(t, Phone("0812345678"), ErrPhonePrefix)
	assert.ErrorIs(t, Phone("09912345"), ErrPhoneFormat)
	assert.ErrorIs(t, Phone("09912345ab"), ErrPhoneFormat)
}

func TestRUC(t *testing.T) {
	assert.NoError(t, RUC("1790012345001"))
	assert.ErrorIs(t, RUC("179001234500"), ErrRUCFormat)
}

func TestLetters(t *testing.T) {
	assert.NoError(t, Letters("Maria Jose"))
	assert.ErrorIs(t, Letters("R2D2"), ErrLettersOnly)
	assert.ErrorIs(t, Letters(""), ErrLettersOnly)
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email("ana@example.com"))
	assert.ErrorIs(t, Email("Ana <ana@example.com>"), ErrEmailFormat)
	assert.ErrorIs(t, Email("not-an-email"), ErrEmailFormat)
}

func TestAdult(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	assert.NoError(t, Adult(time.Date(2006, 6, 15, 0, 0, 0, 0, time.UTC), now))
	assert.ErrorIs(t, Adult(time.Date(2006, 6, 16, 0, 0, 0, 0, time.UTC), now), ErrUnderage)
}

func TestNotFuture(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	assert.NoError(t, NotFuture(time.Date(2024, 6, 15, 23, 0, 0, 0, time.UTC), now))
	assert.ErrorIs(t, NotFuture(time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC), now), ErrFutureDate)
}

func TestDateRangePolicy(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name         string
		policy       DateRangePolicy
		manufactured time.Time
		expires      time.Time
		wantErr      error
	}{
		{
			name:         "one year shelf life",
			policy:       DefaultDateRangePolicy(),
			manufactured: day(2024, 1, 1),
			expires:      day(2025, 1, 1),
		},
		{
			name:         "same day rejected",
			policy:       DefaultDateRangePolicy(),
			manufactured: day(2024, 1, 1),
			expires:      day(2024, 1, 1),
			wantErr:      ErrSameDates,
		},
		{
			name:         "expiry before manufacture rejected by strict rule",
			policy:       DefaultDateRangePolicy(),
			manufactured: day(2024, 1, 2),
			expires:      day(2024, 1, 1),
			wantErr:      ErrExpiryNotAfter,
		},
		{
			name:         "expiry before manufacture allowed by distinct rule",
			policy:       DateRangePolicy{Rule: ExpiryDistinct, MaxShelfLifeYr: 5},
			manufactured: day(2024, 1, 2),
			expires:      day(2024, 1, 1),
		},
		{
			name:         "distinct rule still caps the gap",
			policy:       DateRangePolicy{Rule: ExpiryDistinct, MaxShelfLifeYr: 1},
			manufactured: day(2024, 1, 1),
			expires:      day(2022, 1, 1),
			wantErr:      ErrShelfLifeTooLong,
		},
		{
			name:         "exactly five years of days",
			policy:       DefaultDateRangePolicy(),
			manufactured: day(2020, 1, 1),
			expires:      day(2020, 1, 1).AddDate(0, 0, 5*365),
		},
		{
			name:         "over five years",
			policy:       DefaultDateRangePolicy(),
			manufactured: day(2020, 1, 1),
			expires:      day(2020, 1, 1).AddDate(0, 0, 5*365+1),
			wantErr:      ErrShelfLifeTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Check(tt.manufactured, tt.expires)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseExpiryRule(t *testing.T) {
	assert.Equal(t, ExpiryDistinct, ParseExpiryRule(" Distinct "))
	assert.Equal(t, ExpiryAfter, ParseExpiryRule("whatever"))
}

func TestErrorsCollector(t *testing.T) {
	var errs Errors
	errs.Check("phone", nil)
	require.NoError(t, errs.Err())

	errs.Check("phone", ErrPhonePrefix)
	errs.Add("client_id", "required")

	err := errs.Err()
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, 422, appErr.Code)
	assert.Len(t, appErr.Errors, 2)
	assert.Equal(t, "phone", appErr.Errors[0].Field)
}
