package plugins

import "fmt"

// NoSuchPluginError reports that a plugin was absent from its
// namespace after a load attempt.
type NoSuchPluginError struct {
	Name      string
	Namespace Kind
}

func (e *NoSuchPluginError) Error() string {
	return fmt.Sprintf("no plugin named %q registered under namespace %q", e.Name, e.Namespace)
}

// UnsupportedOperationError reports that a protocol plugin lacks a
// capability the requested mode needs.
type UnsupportedOperationError struct {
	Protocol  string
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("protocol %q does not support %s", e.Protocol, e.Operation)
}

// ResourceError wraps a backend-level failure raised while opening a
// resource. The cause passes through unmodified and is reachable via
// errors.Unwrap / errors.Is / errors.As.
type ResourceError struct {
	URI string
	Err error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("failed to open %q: %v", e.URI, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}
