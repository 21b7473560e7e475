package router

import "strings"

// Intent is the classified purpose of one inbound event.
type Intent int

const (
	// IntentIngestDirect is telemetry delivered straight from an IoT rule,
	// with the sensor fields at the top level of the event.
	IntentIngestDirect Intent = iota
	// IntentIngestAPI is telemetry posted through the HTTP surface.
	IntentIngestAPI
	// IntentAlert is a caller-triggered notification request.
	IntentAlert
	// IntentQuery asks for the stored readings, newest first.
	IntentQuery
	// IntentRejected is anything else and maps to a 405 response.
	IntentRejected
)

func (i Intent) String() string {
	switch i {
	case IntentIngestDirect:
		return "ingest-direct"
	case IntentIngestAPI:
		return "ingest-api"
	case IntentAlert:
		return "alert"
	case IntentQuery:
		return "query"
	default:
		return "rejected"
	}
}

// Classify decides what an inbound event wants. The shape check runs before
// the method/path checks: a malformed HTTP event could coincidentally carry
// temperature/humidity keys, so the order here is load-bearing.
func Classify(event map[string]interface{}) Intent {
	if hasKey(event, "temperature") && hasKey(event, "humidity") {
		return IntentIngestDirect
	}

	method, _ := event["httpMethod"].(string)
	path := requestPath(event)

	switch {
	case method == "POST" && strings.Contains(path, "/sensor"):
		return IntentIngestAPI
	case method == "POST" && strings.Contains(path, "/alert"):
		return IntentAlert
	case method == "GET" && strings.Contains(path, "/sensor"):
		return IntentQuery
	default:
		return IntentRejected
	}
}

// requestPath prefers the API Gateway resource template and falls back to the
// raw path, matching how the gateway populates proxy events.
func requestPath(event map[string]interface{}) string {
	if resource, ok := event["resource"].(string); ok && resource != "" {
		return resource
	}
	if path, ok := event["path"].(string); ok {
		return path
	}
	return ""
}

func hasKey(event map[string]interface{}, key string) bool {
	_, ok := event[key]
	return ok
}
