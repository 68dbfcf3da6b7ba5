package log

const (
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	FieldService = "service"

	FieldUPID   = "upid"
	FieldPrefix = "prefix"
	FieldCount  = "count"
)
