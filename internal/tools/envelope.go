package tools

// Envelope is the common wrapper every tool call result is returned in
// (spec.md §4.4 "Common envelope").
type Envelope struct {
	Success         bool           `json:"success"`
	Data            any            `json:"data,omitempty"`
	Error           string         `json:"error,omitempty"`
	ExecutionTimeMs int64          `json:"execution_time_ms"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

func ok(data any, elapsedMs int64) Envelope {
	return Envelope{Success: true, Data: data, ExecutionTimeMs: elapsedMs}
}

func failed(message string, elapsedMs int64) Envelope {
	return Envelope{Success: false, Error: message, ExecutionTimeMs: elapsedMs}
}
