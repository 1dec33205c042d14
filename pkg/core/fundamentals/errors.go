package fundamentals

import (
	"errors"
	"fmt"
)

// ErrInsufficientData marks a company that exists but has fewer than
// MinHistoryYears usable fiscal years. Callers can skip the ticker and
// report "needs more history"; match with errors.Is.
var ErrInsufficientData = errors.New("insufficient data")

// FinancialDataError is any other extraction failure: missing company,
// missing filing, missing mandatory field, non-positive total capital.
// It carries which ticker and which stage failed.
type FinancialDataError struct {
	Ticker string
	Stage  string
	Err    error
}

func (e *FinancialDataError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Ticker, e.Stage)
	}
	return fmt.Sprintf("%s: %s: %v", e.Ticker, e.Stage, e.Err)
}

func (e *FinancialDataError) Unwrap() error { return e.Err }

func dataError(ticker, stage string, err error) *FinancialDataError {
	return &FinancialDataError{Ticker: ticker, Stage: stage, Err: err}
}

func insufficientData(ticker string, got int) error {
	return fmt.Errorf("%w for %s: only %d years available (need at least %d)",
		ErrInsufficientData, ticker, got, MinHistoryYears)
}
