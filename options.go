package ical

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMaxDepth is the default limit on component nesting.
const DefaultMaxDepth = 64

// DefaultProductID is written as PRODID when a calendar has none.
const DefaultProductID = "-//luxifer//ical//EN"

type options struct {
	logger       *zap.Logger
	maxDepth     int
	simpleErrors bool
	now          func() time.Time
	newUID       func() string
	productID    string
}

// Option configures parsing and formatting.
type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{
		logger:    zap.NewNop(),
		maxDepth:  DefaultMaxDepth,
		now:       time.Now,
		newUID:    uuid.NewString,
		productID: DefaultProductID,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger used to trace parsing and formatting.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMaxDepth limits how deeply components may nest. Values below 1 are
// ignored.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxDepth = n
		}
	}
}

// WithSimpleErrors makes parse errors carry only their class and byte
// offset, skipping the line and context computation.
func WithSimpleErrors() Option {
	return func(o *options) {
		o.simpleErrors = true
	}
}

// WithClock sets the clock used for synthesized DTSTAMP values.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithUIDGenerator sets the source of synthesized UID values.
func WithUIDGenerator(newUID func() string) Option {
	return func(o *options) {
		if newUID != nil {
			o.newUID = newUID
		}
	}
}

// WithProductID sets the PRODID written when a calendar has none.
func WithProductID(id string) Option {
	return func(o *options) {
		if id != "" {
			o.productID = id
		}
	}
}
