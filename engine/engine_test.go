package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/cert-lv/tscli/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
 * Searcher replaying prepared responses and recording the requests
 */
type fakeSearcher struct {
	errs     []error
	result   *query.Result
	requests []query.Spec
}

func (f *fakeSearcher) Search(ctx context.Context, spec query.Spec) (*query.Result, error) {
	f.requests = append(f.requests, spec)

	i := len(f.requests) - 1
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}

	return f.result, nil
}

func spec(filter string) query.Spec {
	return query.Spec{Collection: "items", TextQuery: "*", Filter: filter, Page: 1, PerPage: 10}
}

func TestExecuteSuccess(t *testing.T) {
	result := &query.Result{Hits: []query.Document{{{Key: "id", Value: "1"}}}, Found: 1, SearchTimeMS: 3}
	s := &fakeSearcher{result: result}

	got, err := New(s).Execute(context.Background(), spec("a:=1"))
	require.NoError(t, err)
	assert.Equal(t, result, got)
	assert.Len(t, s.requests, 1)
}

func TestExecuteNumericRetry(t *testing.T) {
	result := &query.Result{Found: 7}
	s := &fakeSearcher{
		errs:   []error{errors.New("Request failed with HTTP code 400 | Server said: Not an int32.")},
		result: result,
	}

	original := spec("rating:!=null && votes:!=null")

	got, err := New(s).Execute(context.Background(), original)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Found)

	require.Len(t, s.requests, 2)
	assert.Equal(t, "rating:>= -2000000000 && votes:>= -2000000000", s.requests[1].Filter)
	assert.Equal(t, "rating:!=null && votes:!=null", original.Filter)

	// Everything except the filter is reused
	retry := s.requests[1]
	retry.Filter = original.Filter
	assert.Equal(t, original, retry)
}

func TestExecuteRetryBounded(t *testing.T) {
	mismatch := errors.New("Not an int32")
	s := &fakeSearcher{errs: []error{mismatch, mismatch, mismatch}}

	_, err := New(s).Execute(context.Background(), spec("rating:!=null"))

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, ServiceFailureRetried, failure.Kind)
	assert.True(t, failure.Retried)
	assert.Equal(t, "Not an int32", failure.Message)
	assert.Len(t, s.requests, 2)
	assert.Equal(t, "rating:>= -2000000000", s.requests[1].Filter)
}

/*
 * Classifier asking for a retry every time still gets a single one
 */
type alwaysRetry struct{}

func (alwaysRetry) Classify(error, string) Verdict { return RetryRewritten }
func (alwaysRetry) Rewrite(f string) string        { return f + "!" }

func TestExecuteRetryBoundedCustomClassifier(t *testing.T) {
	boom := errors.New("boom")
	s := &fakeSearcher{errs: []error{boom, boom, boom}}

	_, err := New(s, WithClassifier(alwaysRetry{})).Execute(context.Background(), spec("a:=1"))

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, ServiceFailureRetried, failure.Kind)
	assert.Len(t, s.requests, 2)
	assert.Equal(t, "a:=1!", s.requests[1].Filter)
}

func TestExecuteNullComparison(t *testing.T) {
	s := &fakeSearcher{errs: []error{errors.New("Could not parse the filter query: invalid comparator.")}}

	_, err := New(s).Execute(context.Background(), spec("code:=null"))

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, NullComparisonUnsupported, failure.Kind)
	assert.False(t, failure.Retried)
	assert.Equal(t, nullComparisonMessage, failure.Message)
	assert.Len(t, s.requests, 1)
}

func TestExecuteOtherFailure(t *testing.T) {
	tables := []struct {
		err    string
		filter string
	}{
		{"Collection not found", "a:=1"},
		{"Not an int32", "a:=1"},
		{"invalid comparator", "a:!=null"},
	}

	for _, table := range tables {
		s := &fakeSearcher{errs: []error{errors.New(table.err)}}

		_, err := New(s).Execute(context.Background(), spec(table.filter))

		var failure *Failure
		require.ErrorAs(t, err, &failure)
		assert.Equal(t, ServiceFailure, failure.Kind, table.err)
		assert.Equal(t, table.err, failure.Message)
		assert.False(t, failure.Retried)
		assert.Len(t, s.requests, 1)
	}
}

func TestExecuteEmptyResult(t *testing.T) {
	s := &fakeSearcher{result: &query.Result{Hits: []query.Document{}}}

	got, err := New(s).Execute(context.Background(), spec(""))
	require.NoError(t, err)
	assert.Empty(t, got.Hits)
}

func TestRewrite(t *testing.T) {
	c := SignatureClassifier{}

	assert.Equal(t, "rating:>= -2000000000", c.Rewrite("rating:!=null"))
	assert.Equal(t, "a:=1 || b_c:>= -2000000000", c.Rewrite("a:=1 || b_c:!=null"))
	assert.Equal(t, "a:=null", c.Rewrite("a:=null"))
}
