// Package retriever is the optional upstream collaborator that resolves
// an Origin SSO token against EA's own servers (spec.md §1 Non-goals:
// "the optional upstream retriever ... interfaces only"). This package
// ships only the interface's default implementation; a real origin
// integration is out of scope.
package retriever

import "errors"

// ErrNotConfigured is returned by Disabled when no retriever origin is
// configured (config.RetrieverConfig.Enabled == false, the default).
var ErrNotConfigured = errors.New("retriever: not configured")

// Disabled satisfies gsession.OriginRetriever by always failing, so
// OriginLogin cleanly reports ErrInvalidAccount when no upstream is wired.
type Disabled struct{}

func (Disabled) ResolveOriginToken(token string) (playerID uint32, email, displayName string, err error) {
	return 0, "", "", ErrNotConfigured
}
