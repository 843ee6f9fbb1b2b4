package model

import (
	"github.com/gaborage/go-sqlmodel/database/dialect"
	"github.com/gaborage/go-sqlmodel/logger"
)

// Option customizes an Executor.
type Option func(*options)

type options struct {
	argConverter dialect.ArgConverter
	rowConverter dialect.RowConverter
	log          logger.Logger
}

// WithArgConverter installs a converter tried before the dialect's built-in
// argument conversions, for domain types such as identifiers or decimals.
func WithArgConverter(fn dialect.ArgConverter) Option {
	return func(o *options) { o.argConverter = fn }
}

// WithRowConverter installs a converter tried before the dialect's built-in
// column decoding.
func WithRowConverter(fn dialect.RowConverter) Option {
	return func(o *options) { o.rowConverter = fn }
}

// WithLogger logs every statement at debug level and failures at error level.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}
