package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	apperrors "bank/internal/errors"

	"github.com/shopspring/decimal"
)

var amountRegex = regexp.MustCompile(fmt.Sprintf(`^[0-9]{1,%d}(\.[0-9]{1,%d})?$`, MaxAmountIntegerDigits, MaxAmountScale))

// TransferRequest is a syntactically valid transfer submission.
type TransferRequest struct {
	Amount               decimal.Decimal
	TransferCode         string
	DestinationAccountID uint
}

// TransferValidator parses raw transfer form input. It holds no state
// besides the compiled code pattern and is safe for concurrent use.
type TransferValidator struct {
	codePattern *regexp.Regexp
}

// NewTransferValidator compiles the transfer code pattern.
func NewTransferValidator(codePattern string) (*TransferValidator, error) {
	re, err := regexp.Compile(codePattern)
	if err != nil {
		return nil, fmt.Errorf("compile transfer code pattern: %w", err)
	}
	return &TransferValidator{codePattern: re}, nil
}

// ParseTransfer checks the fields in form order (amount, code, destination)
// and reports the first invalid one.
func (v *TransferValidator) ParseTransfer(amountRaw, codeRaw, destinationRaw string) (TransferRequest, error) {
	amount, err := parseAmount(strings.TrimSpace(amountRaw))
	if err != nil {
		return TransferRequest{}, err
	}

	code := strings.TrimSpace(codeRaw)
	if code == "" || !v.codePattern.MatchString(code) {
		return TransferRequest{}, apperrors.ErrInvalidTransferCode
	}

	destination, err := parseDestination(strings.TrimSpace(destinationRaw))
	if err != nil {
		return TransferRequest{}, err
	}

	return TransferRequest{
		Amount:               amount,
		TransferCode:         code,
		DestinationAccountID: destination,
	}, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, apperrors.ErrInvalidAmount.WithMessage("Amount is required")
	}
	if !amountRegex.MatchString(raw) {
		return decimal.Zero, apperrors.ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperrors.ErrInvalidAmount.Wrap(err)
	}
	if !amount.IsPositive() {
		return decimal.Zero, apperrors.ErrInvalidAmount.WithMessage("Amount must be greater than zero")
	}
	return amount, nil
}

func parseDestination(raw string) (uint, error) {
	if raw == "" {
		return 0, apperrors.ErrInvalidDestination
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 || id > math.MaxInt64 {
		return 0, apperrors.ErrInvalidDestination
	}
	return uint(id), nil
}
