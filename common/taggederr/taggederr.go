package taggederr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Tags live in an immutable linked list with a shared tail, so AddTag on a
// shared parent never affects siblings.
type tag struct {
	k, v string
	next *tag
}

// TaggedErr is an error annotated with key/value tags. The tags end up as
// Sentry tags when the error is reported.
type TaggedErr struct {
	inner error
	tags  *tag
}

// New creates a new TaggedErr from a string describing the issue.
func New(msg string) TaggedErr {
	return Wrap(errors.New(msg))
}

// Newf creates a new TaggedErr in the manner of fmt.Errorf.
func Newf(fmtstr string, args ...interface{}) TaggedErr {
	return Wrap(fmt.Errorf(fmtstr, args...))
}

// Wrap wraps an error value to make it a TaggedErr, or exposes the
// TaggedErr if the parameter is already one.
// Passing nil will result in a panic.
func Wrap(e error) TaggedErr {
	if e == nil {
		panic("taggederr.Wrap called with nil error")
	}
	if te, ok := e.(TaggedErr); ok {
		return te
	}
	return TaggedErr{inner: e}
}

// AddTag returns a copy of t with the tag added. A later tag with the same
// key shadows an earlier one.
func (t TaggedErr) AddTag(k, v string) TaggedErr {
	return TaggedErr{t.inner, &tag{k, v, t.tags}}
}

// GetTags returns a new map with tags, preferring the value most recently
// applied when a tag has been set more than once.
func (t TaggedErr) GetTags() map[string]string {
	m := make(map[string]string)
	for tt := t.tags; tt != nil; tt = tt.next {
		if _, ok := m[tt.k]; !ok {
			m[tt.k] = tt.v
		}
	}
	return m
}

// GetInner returns the wrapped error value, which will never be nil.
func (t TaggedErr) GetInner() error {
	return t.inner
}

func (t TaggedErr) Unwrap() error {
	return t.inner
}

func (t TaggedErr) Error() string {
	if t.tags == nil {
		return t.inner.Error()
	}
	m := t.GetTags()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + m[k]
	}
	return "[" + strings.Join(pairs, ",") + "]: " + t.inner.Error()
}
