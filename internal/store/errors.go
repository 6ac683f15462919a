package store

import "fmt"

// MissingCertificateError reports a lookup for a key the store does not hold.
type MissingCertificateError struct {
	Key string
}

func (e *MissingCertificateError) Error() string {
	return fmt.Sprintf("no certificate stored under key %q", e.Key)
}
