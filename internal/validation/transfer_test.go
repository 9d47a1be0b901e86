package validation

import (
	"testing"

	apperrors "bank/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator(t *testing.T) *TransferValidator {
	t.Helper()
	v, err := NewTransferValidator(`^[A-Za-z0-9]{10}$`)
	require.NoError(t, err)
	return v
}

func TestParseTransfer_Valid(t *testing.T) {
	v := newTestValidator(t)

	req, err := v.ParseTransfer(" 10.50 ", "AbC123xYz9", "42")
	require.NoError(t, err)

	assert.Equal(t, "10.5", req.Amount.String())
	assert.Equal(t, "AbC123xYz9", req.TransferCode)
	assert.Equal(t, uint(42), req.DestinationAccountID)
}

func TestParseTransfer_Invalid(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		name        string
		amount      string
		code        string
		destination string
		wantErr     error
		wantField   string
	}{
		{name: "missing amount", amount: "", code: "AbC123xYz9", destination: "2", wantErr: apperrors.ErrInvalidAmount, wantField: "amount"},
		{name: "non numeric amount", amount: "ten", code: "AbC123xYz9", destination: "2", wantErr: apperrors.ErrInvalidAmount, wantField: "amount"},
		{name: "negative amount", amount: "-5", code: "AbC123xYz9", destination: "2", wantErr: apperrors.ErrInvalidAmount, wantField: "amount"},
		{name: "zero amount", amount: "0.00", code: "AbC123xYz9", destination: "2", wantErr: apperrors.ErrInvalidAmount, wantField: "amount"},
		{name: "too many decimals", amount: "1.005", code: "AbC123xYz9", destination: "2", wantErr: apperrors.ErrInvalidAmount, wantField: "amount"},
		{name: "exponent notation", amount: "1e3", code: "AbC123xYz9", destination: "2", wantErr: apperrors.ErrInvalidAmount, wantField: "amount"},
		{name: "amount too large", amount: "123456789012345678", code: "AbC123xYz9", destination: "2", wantErr: apperrors.ErrInvalidAmount, wantField: "amount"},
		{name: "missing code", amount: "5", code: "", destination: "2", wantErr: apperrors.ErrInvalidTransferCode, wantField: "transcode"},
		{name: "short code", amount: "5", code: "abc", destination: "2", wantErr: apperrors.ErrInvalidTransferCode, wantField: "transcode"},
		{name: "code with symbols", amount: "5", code: "AbC123xY'9", destination: "2", wantErr: apperrors.ErrInvalidTransferCode, wantField: "transcode"},
		{name: "missing destination", amount: "5", code: "AbC123xYz9", destination: "", wantErr: apperrors.ErrInvalidDestination, wantField: "toAccountNum"},
		{name: "zero destination", amount: "5", code: "AbC123xYz9", destination: "0", wantErr: apperrors.ErrInvalidDestination, wantField: "toAccountNum"},
		{name: "negative destination", amount: "5", code: "AbC123xYz9", destination: "-3", wantErr: apperrors.ErrInvalidDestination, wantField: "toAccountNum"},
		{name: "fractional destination", amount: "5", code: "AbC123xYz9", destination: "3.5", wantErr: apperrors.ErrInvalidDestination, wantField: "toAccountNum"},
		{name: "amount reported before code", amount: "x", code: "bad", destination: "bad", wantErr: apperrors.ErrInvalidAmount, wantField: "amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.ParseTransfer(tt.amount, tt.code, tt.destination)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

			var de *apperrors.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.wantField, de.Field)
		})
	}
}

func TestParseTransfer_CustomPattern(t *testing.T) {
	v, err := NewTransferValidator(`^[0-9]{6}$`)
	require.NoError(t, err)

	_, err = v.ParseTransfer("1", "123456", "7")
	assert.NoError(t, err)

	_, err = v.ParseTransfer("1", "AbC123xYz9", "7")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransferCode)
}

func TestNewTransferValidator_BadPattern(t *testing.T) {
	_, err := NewTransferValidator("([")
	assert.Error(t, err)
}
