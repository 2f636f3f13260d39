package logger

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Field type alias for convenience
type Field = zap.Field

// Common field constructors - re-exported from zap for convenience

// String constructs a field with the given key and value
func String(key string, val string) Field {
	return zap.String(key, val)
}

// Strings constructs a field with the given key and slice of strings
func Strings(key string, val []string) Field {
	return zap.Strings(key, val)
}

// Int constructs a field with the given key and value
func Int(key string, val int) Field {
	return zap.Int(key, val)
}

// Int64 constructs a field with the given key and value
func Int64(key string, val int64) Field {
	return zap.Int64(key, val)
}

// Bool constructs a field with the given key and value
func Bool(key string, val bool) Field {
	return zap.Bool(key, val)
}

// Time constructs a field with the given key and value
func Time(key string, val time.Time) Field {
	return zap.Time(key, val)
}

// Duration constructs a field with the given key and value
func Duration(key string, val time.Duration) Field {
	return zap.Duration(key, val)
}

// Error constructs a field that lazily stores err.Error() under the key "error"
func Error(err error) Field {
	return zap.Error(err)
}

// NamedError constructs a field that lazily stores err.Error() under the provided key
func NamedError(key string, err error) Field {
	return zap.NamedError(key, err)
}

// Any takes a key and an arbitrary value and chooses the best way to represent them
func Any(key string, val any) Field {
	return zap.Any(key, val)
}

// Stringer constructs a field with the given key and the output of the value's String method
func Stringer(key string, val fmt.Stringer) Field {
	return zap.Stringer(key, val)
}

// Skip constructs a no-op field, which is often useful when handling invalid inputs
func Skip() Field {
	return zap.Skip()
}

// Domain-specific fields

// Component constructs a field for component name
func Component(name string) Field {
	return String("component", name)
}

// Operation constructs a field for operation name
func Operation(name string) Field {
	return String("operation", name)
}

// Repository constructs a field for a local repository path
func Repository(path string) Field {
	return String("repository", path)
}

// RepositoryID constructs a field for a catalog row identifier
func RepositoryID(id int64) Field {
	return Int64("repository_id", id)
}

// Branch constructs a field for branch name
func Branch(name string) Field {
	return String("branch", name)
}

// Commit constructs a field for commit SHA
func Commit(sha string) Field {
	return String("commit", sha)
}

// Owner constructs a field for a remote owner login
func Owner(login string) Field {
	return String("owner", login)
}

// Endpoint constructs a field for an API endpoint URL
func Endpoint(url string) Field {
	return String("endpoint", url)
}

// RequestKey constructs a field for an in-flight request key
func RequestKey(key string) Field {
	return String("request_key", key)
}

// BatchSize constructs a field for a history batch size
func BatchSize(n int) Field {
	return Int("batch_size", n)
}
