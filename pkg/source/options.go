package source

// RequestOptions controls how a requested object is read.
type RequestOptions struct {
	// RebinFactor merges every n adjacent bins after reading; 0 keeps the
	// stored binning.
	RebinFactor int
	// ProfileErrorOption, when set, selects the error computation of a
	// profile (see binned.ErrorSpread and friends).
	ProfileErrorOption *string
	// Force replaces an earlier request or cached object for the same path.
	Force bool
}

// RequestOption configures a request.
type RequestOption func(*RequestOptions)

// NewRequestOptions applies opts to the defaults (forcing, no rebin, no
// profile error option).
func NewRequestOptions(opts ...RequestOption) RequestOptions {
	ro := RequestOptions{Force: true}
	for _, opt := range opts {
		opt(&ro)
	}
	return ro
}

// WithRebin merges every n adjacent bins of the object.
func WithRebin(n int) RequestOption {
	return func(ro *RequestOptions) { ro.RebinFactor = n }
}

// WithProfileErrorOption sets the error option of a profile.
func WithProfileErrorOption(opt string) RequestOption {
	return func(ro *RequestOptions) { ro.ProfileErrorOption = &opt }
}

// WithForce controls whether the request replaces an earlier one.
func WithForce(force bool) RequestOption {
	return func(ro *RequestOptions) { ro.Force = force }
}

// WithOptions copies every field of o.
func WithOptions(o RequestOptions) RequestOption {
	return func(ro *RequestOptions) { *ro = o }
}
