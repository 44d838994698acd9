// internal/app/system/limits/limits.go
package limits

// Request body size limits. These limits help prevent memory exhaustion
// from oversized requests.
const (
	// MaxLifecycleBodySize bounds create/update/rename request bodies.
	// Repository metadata is short text; anything larger is a mistake.
	MaxLifecycleBodySize = 64 << 10 // 64 KB
)
