package engine

import (
	"regexp"
	"strings"
)

// What to do with a failed search
type Verdict int

const (
	// Give the error back to the caller
	Fail Verdict = iota

	// Rewrite the filter and try once more
	RetryRewritten

	// Known unsupported null equality check
	NullComparison
)

/*
 * Classifier inspects search service errors
 * and decides on the remediation
 */
type Classifier interface {
	// Classify a failed search by its error and the filter it used
	Classify(err error, filter string) Verdict

	// Rewrite the filter for a RetryRewritten verdict
	Rewrite(filter string) string
}

const (
	// Error signatures of the search service
	numericMismatch   = "Not an int32"
	invalidComparator = "invalid comparator"

	// Lower bound covering ordinary signed integer values
	rangeSentinel = ">= -2000000000"
)

var reNotNull = regexp.MustCompile(`(\w+):!=null`)

/*
 * SignatureClassifier recognizes the errors by their message text.
 *
 * Numeric fields reject "!=null" with a type mismatch error,
 * such checks are replaced by a wide range query.
 * Numeric fields also reject "=null", which has no replacement
 */
type SignatureClassifier struct{}

func (SignatureClassifier) Classify(err error, filter string) Verdict {
	if err == nil {
		return Fail
	}

	msg := err.Error()

	if strings.Contains(msg, numericMismatch) && strings.Contains(filter, ":!=null") {
		return RetryRewritten
	}

	if strings.Contains(msg, invalidComparator) && strings.Contains(filter, ":=null") {
		return NullComparison
	}

	return Fail
}

func (SignatureClassifier) Rewrite(filter string) string {
	return reNotNull.ReplaceAllString(filter, "${1}:"+rangeSentinel)
}
