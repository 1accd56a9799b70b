package loader

import (
	"errors"
	"fmt"
	"io"
)

// LoadFilesAndValidate loads both files, reporting each file's outcome to
// w. The dataset holds every file that loaded; the error joins the
// violations of the ones that did not.
func (l *Loader) LoadFilesAndValidate(w io.Writer, stocksPath, flowsPath string) (*Dataset, error) {
	ds := &Dataset{}
	stocks, stockErr := l.LoadStocks(stocksPath)
	if stockErr != nil {
		fmt.Fprintf(w, "Error validating file %s\n", stocksPath)
		printViolations(w, stockErr)
	} else {
		ds.Stocks = stocks
		fmt.Fprintf(w, "File %s - %d stocks validated successfully\n", stocksPath, len(stocks))
	}
	flows, flowErr := l.LoadFlows(flowsPath)
	if flowErr != nil {
		fmt.Fprintf(w, "Error validating file %s\n", flowsPath)
		printViolations(w, flowErr)
	} else {
		ds.Flows = flows
		fmt.Fprintf(w, "File %s - %d flows validated successfully\n", flowsPath, len(flows))
	}
	return ds, errors.Join(stockErr, flowErr)
}

func printViolations(w io.Writer, err error) {
	for _, v := range Flatten(err) {
		fmt.Fprintf(w, "  %v\n", v)
	}
}

// Flatten unwraps joined and wrapped errors down to their individual
// violations. Leaves that carry no further structure are returned as is.
func Flatten(err error) []error {
	if err == nil {
		return nil
	}
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range multi.Unwrap() {
			out = append(out, Flatten(e)...)
		}
		return out
	}
	if fe, ok := err.(*FileError); ok {
		var multi interface{ Unwrap() []error }
		if errors.As(fe.Err, &multi) {
			return Flatten(fe.Err)
		}
		return []error{err}
	}
	return []error{err}
}
