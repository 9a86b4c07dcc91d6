// Package output provides JSON output formatting and error handling.
package output

// Exit codes, one per error class.
const (
	ExitOK      = 0 // Success
	ExitUsage   = 1 // Invalid arguments or flags
	ExitConfig  = 2 // Missing credentials, bad buffer, absent marker line
	ExitAuth    = 3 // Server rejected authentication
	ExitNetwork = 4 // Connection/DNS/timeout error
	ExitAPI     = 5 // Server returned an error response
	ExitPayload = 6 // Response body missing expected fields
)

// Error codes for the JSON envelope.
const (
	CodeUsage   = "usage"
	CodeConfig  = "config"
	CodeAuth    = "auth"
	CodeNetwork = "network"
	CodeAPI     = "api_error"
	CodePayload = "payload_shape"
)

// ExitCodeFor returns the exit code for a given error code.
func ExitCodeFor(code string) int {
	switch code {
	case CodeUsage:
		return ExitUsage
	case CodeConfig:
		return ExitConfig
	case CodeAuth:
		return ExitAuth
	case CodeNetwork:
		return ExitNetwork
	case CodeAPI:
		return ExitAPI
	case CodePayload:
		return ExitPayload
	default:
		return ExitAPI
	}
}
