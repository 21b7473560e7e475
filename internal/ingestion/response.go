package ingestion

import (
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
)

// corsHeaders go on every response, the browser dashboard calls the API
// from a different origin.
func corsHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin": "*",
		"Content-Type":                "application/json",
	}
}

func plainResponse(status int, body string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    corsHeaders(),
		Body:       body,
	}
}

func messageResponse(status int, message string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(map[string]string{"message": message})
	return plainResponse(status, string(body))
}

func errorResponse(status int, message string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(map[string]string{"error": message})
	return plainResponse(status, string(body))
}
