package validation

const (
	// MaxAmountScale is the number of fractional digits an amount may carry.
	MaxAmountScale = 2
	// MaxAmountIntegerDigits keeps amounts inside numeric(19,2).
	MaxAmountIntegerDigits = 17
)
