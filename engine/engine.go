/*
 * Execution of the search requests with a single
 * rewrite-and-retry attempt for the known service errors
 */

package engine

import (
	"context"
	"fmt"

	"github.com/cert-lv/tscli/query"
	"github.com/rs/zerolog"
)

// Message shown instead of the service error for the null equality checks
const nullComparisonMessage = "The search service does not support explicit NULL checks (IS NULL) on numeric fields in filter_by"

// Failure kinds
type Kind int

const (
	ServiceFailure Kind = iota
	ServiceFailureRetried
	NullComparisonUnsupported
)

func (k Kind) String() string {
	switch k {
	case ServiceFailure:
		return "service failure"
	case ServiceFailureRetried:
		return "service failure after retry"
	case NullComparisonUnsupported:
		return "null comparison unsupported"
	}

	return fmt.Sprintf("kind(%d)", int(k))
}

/*
 * Failure is the only error type returned by Execute
 */
type Failure struct {
	Kind    Kind
	Message string

	// Whether the rewritten request was sent as well
	Retried bool
}

func (f *Failure) Error() string {
	return f.Message
}

// Searcher sends a single request to the search service
type Searcher interface {
	Search(ctx context.Context, spec query.Spec) (*query.Result, error)
}

type Engine struct {
	searcher   Searcher
	classifier Classifier
	log        zerolog.Logger
}

type Option func(*Engine)

// WithClassifier replaces the default error signatures matching
func WithClassifier(c Classifier) Option {
	return func(e *Engine) {
		e.classifier = c
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

func New(searcher Searcher, opts ...Option) *Engine {
	e := &Engine{
		searcher:   searcher,
		classifier: SignatureClassifier{},
		log:        zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

/*
 * Execute the request.
 *
 * One or two requests are sent: the second one only when the classifier
 * asks for a rewritten filter, and never more than once per call.
 * The given spec is not modified, a retry uses a derived copy
 */
func (e *Engine) Execute(ctx context.Context, spec query.Spec) (*query.Result, error) {
	retried := false

	for {
		e.log.Debug().
			Str("collection", spec.Collection).
			Str("filter", spec.Filter).
			Bool("retry", retried).
			Msg("Sending search request")

		result, err := e.searcher.Search(ctx, spec)
		if err == nil {
			return result, nil
		}

		switch e.classifier.Classify(err, spec.Filter) {
		case RetryRewritten:
			if retried {
				return nil, &Failure{Kind: ServiceFailureRetried, Message: err.Error(), Retried: true}
			}

			rewritten := e.classifier.Rewrite(spec.Filter)

			e.log.Warn().
				Str("collection", spec.Collection).
				Str("filter", spec.Filter).
				Str("rewritten", rewritten).
				Msg("Numeric field detected, retrying with range query")

			spec = spec.WithFilter(rewritten)
			retried = true

		case NullComparison:
			e.log.Debug().
				Str("filter", spec.Filter).
				Msg("Null equality check rejected: " + err.Error())

			return nil, &Failure{Kind: NullComparisonUnsupported, Message: nullComparisonMessage, Retried: retried}

		default:
			if retried {
				return nil, &Failure{Kind: ServiceFailureRetried, Message: err.Error(), Retried: true}
			}

			return nil, &Failure{Kind: ServiceFailure, Message: err.Error()}
		}
	}
}
