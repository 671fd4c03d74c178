// Package likelihood implements log-likelihood functions for the count and
// discrete-choice models estimated elsewhere in statlab. Each model exposes
// LogLik and its negation NegLogLik; the negated form is what a minimizer
// consumes. Invalid parameter regions yield math.Inf(-1) so an optimizer can
// keep probing other points instead of aborting on a domain error.
package likelihood

// Objective is the contract shared by all likelihood variants. The parameter
// vector is read-only input; callers own it exclusively.
type Objective interface {
	// LogLik evaluates the log-likelihood at beta.
	LogLik(beta []float64) float64
	// NegLogLik evaluates the negated log-likelihood at beta.
	NegLogLik(beta []float64) float64
	// NumParams returns the expected parameter vector length.
	NumParams() int
	// ParamNames returns one name per parameter, matching the design columns.
	ParamNames() []string
}
