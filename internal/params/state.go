package params

import (
	"maps"
	"net/url"
	"slices"
)

// URLState reads and writes the query string that holds shareable state.
type URLState interface {
	// Track returns the current raw value for id, if any, and subscribes fn
	// to later external changes of that key. fn receives ok=false when the
	// key disappears.
	Track(id string, fn func(raw string, ok bool)) (string, bool)
	// Update writes a value without notifying trackers.
	Update(id, raw string)
}

// QueryState is a URLState backed by a parsed query string.
type QueryState struct {
	values   url.Values
	trackers map[string][]func(string, bool)
}

// NewQueryState parses rawQuery. Malformed pairs are dropped.
func NewQueryState(rawQuery string) *QueryState {
	values, _ := url.ParseQuery(rawQuery)
	return &QueryState{
		values:   values,
		trackers: make(map[string][]func(string, bool)),
	}
}

// FromValues wraps already parsed query values. The values are copied.
func FromValues(values url.Values) *QueryState {
	q := NewQueryState("")
	for k, v := range values {
		q.values[k] = append([]string(nil), v...)
	}
	return q
}

// Track implements URLState.
func (q *QueryState) Track(id string, fn func(string, bool)) (string, bool) {
	if fn != nil {
		q.trackers[id] = append(q.trackers[id], fn)
	}
	return q.Get(id)
}

// Update implements URLState.
func (q *QueryState) Update(id, raw string) {
	q.values.Set(id, raw)
}

// Get returns the first value stored under id.
func (q *QueryState) Get(id string) (string, bool) {
	v, ok := q.values[id]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// Navigate replaces the whole query, as when following a shared link, and
// notifies trackers of every key whose value changed, in key order.
func (q *QueryState) Navigate(rawQuery string) {
	next, _ := url.ParseQuery(rawQuery)
	if next == nil {
		next = url.Values{}
	}
	prev := q.values
	q.values = next

	for _, id := range slices.Sorted(maps.Keys(q.trackers)) {
		fns := q.trackers[id]
		before, hadBefore := first(prev, id)
		after, hasAfter := first(next, id)
		if before == after && hadBefore == hasAfter {
			continue
		}
		for _, fn := range fns {
			fn(after, hasAfter)
		}
	}
}

// Encode returns the current query string with keys sorted.
func (q *QueryState) Encode() string {
	return q.values.Encode()
}

func first(values url.Values, id string) (string, bool) {
	v, ok := values[id]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}
