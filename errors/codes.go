package errors

// ErrorCode identifies a class of failure for clients and observability.
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS   ErrorCode = 1003

	// Webhook ingestion
	ErrorCode_WEBHOOK_INVALID_SIGNATURE ErrorCode = 2000
	ErrorCode_WEBHOOK_INVALID_PAYLOAD   ErrorCode = 2001
	ErrorCode_WEBHOOK_UNKNOWN_EVENT     ErrorCode = 2002

	// Pipeline
	ErrorCode_MEETING_NOT_FOUND    ErrorCode = 3000
	ErrorCode_PERSISTENCE_FAILED   ErrorCode = 3001
	ErrorCode_BROADCAST_FAILED     ErrorCode = 3002
	ErrorCode_INVALID_STATE_CHANGE ErrorCode = 3003

	// Simulation
	ErrorCode_SCHEDULER_ALREADY_RUNNING ErrorCode = 4000
	ErrorCode_SCHEDULER_NOT_RUNNING     ErrorCode = 4001
)

// String returns the symbolic name of the code.
func (c ErrorCode) String() string {
	switch c {
	case ErrorCode_HTTP_OK:
		return "OK"
	case ErrorCode_INTERNAL:
		return "INTERNAL"
	case ErrorCode_INVALID_ARGUMENT:
		return "INVALID_ARGUMENT"
	case ErrorCode_NOT_FOUND:
		return "NOT_FOUND"
	case ErrorCode_ALREADY_EXISTS:
		return "ALREADY_EXISTS"
	case ErrorCode_WEBHOOK_INVALID_SIGNATURE:
		return "WEBHOOK_INVALID_SIGNATURE"
	case ErrorCode_WEBHOOK_INVALID_PAYLOAD:
		return "WEBHOOK_INVALID_PAYLOAD"
	case ErrorCode_WEBHOOK_UNKNOWN_EVENT:
		return "WEBHOOK_UNKNOWN_EVENT"
	case ErrorCode_MEETING_NOT_FOUND:
		return "MEETING_NOT_FOUND"
	case ErrorCode_PERSISTENCE_FAILED:
		return "PERSISTENCE_FAILED"
	case ErrorCode_BROADCAST_FAILED:
		return "BROADCAST_FAILED"
	case ErrorCode_INVALID_STATE_CHANGE:
		return "INVALID_STATE_CHANGE"
	case ErrorCode_SCHEDULER_ALREADY_RUNNING:
		return "SCHEDULER_ALREADY_RUNNING"
	case ErrorCode_SCHEDULER_NOT_RUNNING:
		return "SCHEDULER_NOT_RUNNING"
	default:
		return "UNKNOWN"
	}
}
