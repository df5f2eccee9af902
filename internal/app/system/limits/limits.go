// internal/app/system/limits/limits.go
package limits

// Request body size limits.
const (
	// MaxJSONBody caps every JSON request body read by jsonutil.Decode.
	// Report content (20,000 chars) is the largest field accepted.
	MaxJSONBody = 1 << 20 // 1 MB
)
