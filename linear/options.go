package linear

// Option is a function that configures LinearRegression
type Option func(*LinearRegression)

// WithFitIntercept sets whether to calculate the intercept. When false the
// data is assumed to be centered already.
func WithFitIntercept(fit bool) Option {
	return func(lr *LinearRegression) {
		lr.fitIntercept = fit
	}
}

// WithRcond sets the relative cutoff for small singular values. Singular
// values below rcond times the largest one are treated as zero. A
// non-positive value selects eps·max(n_samples, n_features).
func WithRcond(rcond float64) Option {
	return func(lr *LinearRegression) {
		lr.rcond = rcond
	}
}

// WithFeatureNames records the feature names carried into exported weights.
func WithFeatureNames(names ...string) Option {
	return func(lr *LinearRegression) {
		lr.features = append([]string(nil), names...)
	}
}
