package assoofs

import "log"

// Option configures a Superblock at Mount time.
type Option func(sb *Superblock) error

// WithLogger overrides the *log.Logger used for the mount diagnostic and
// unsupported-mode warnings. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(sb *Superblock) error {
		sb.log = l
		return nil
	}
}
