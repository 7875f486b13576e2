package skeleton

import "github.com/sgostarter/libcalheatmap/calerr"

type Options struct {
	colLimit int
	rowLimit int
}

func (opts *Options) Validate() error {
	if opts.colLimit < 0 {
		return calerr.NewConfigError("colLimit", "negative limit %d", opts.colLimit)
	}

	if opts.rowLimit < 0 {
		return calerr.NewConfigError("rowLimit", "negative limit %d", opts.rowLimit)
	}

	if opts.colLimit > 0 && opts.rowLimit > 0 {
		return calerr.NewConfigError("rowLimit", "both row and column limits set")
	}

	return nil
}

type Option func(o *Options)

func optionNew(option ...Option) *Options {
	opts := &Options{}
	for _, o := range option {
		o(opts)
	}

	return opts
}

// ColLimitOption caps the number of columns of a domain; rows grow to fit.
func ColLimitOption(n int) Option {
	return func(o *Options) {
		o.colLimit = n
	}
}

// RowLimitOption caps the number of rows of a domain; columns grow to fit.
func RowLimitOption(n int) Option {
	return func(o *Options) {
		o.rowLimit = n
	}
}
