package topics

import "errors"

var (
	// ErrInput reports text or parameters the extractor cannot work with:
	// empty text, no usable terms, or a non-positive topic count.
	ErrInput = errors.New("invalid extraction input")
	// ErrModelFit reports a topic model that failed to fit.
	ErrModelFit = errors.New("topic model fit failed")
)
