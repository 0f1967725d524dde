// Package actions implements the booking-action dispatcher: a stateless
// request handler that walks a website visitor from lead capture through a
// confirmed service call. Every step arrives as a named action plus a
// payload; the dispatcher validates, performs at most one CRM call, and
// answers with a message and the next card for the UI to render. All
// durable state lives in the CRM; whatever a later step needs, the client
// round-trips back in its payload.
package actions

import "encoding/json"

// Action is a named client-triggered step in the booking conversation.
type Action string

const (
	ActionSubmitLead         Action = "SUBMIT_LEAD"
	ActionSearchCustomer     Action = "SEARCH_CUSTOMER"
	ActionNewCustomer        Action = "NEW_CUSTOMER"
	ActionSelectCustomer     Action = "SELECT_CUSTOMER"
	ActionSubmitCustomerInfo Action = "SUBMIT_CUSTOMER_INFO"
	ActionSelectDate         Action = "SELECT_DATE"
	ActionSelectTime         Action = "SELECT_TIME"
	ActionBooking            Action = "HOUSECALL_PRO_BOOKING"
)

// Error codes returned in ActionResult.Error.Code.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeMCPError        = "MCP_ERROR"
	CodeIntegrationDown = "INTEGRATION_DOWN"
	CodeUnknownAction   = "UNKNOWN_ACTION"
	CodeInternalError   = "INTERNAL_ERROR"
)

// RequestContext identifies the conversation a request belongs to.
type RequestContext struct {
	ThreadID  string `json:"threadId"`
	SessionID string `json:"sessionId,omitempty"`
}

// ActionRequest is one dispatch call. Payload stays raw until the action's
// schema decodes it.
type ActionRequest struct {
	Action  Action          `json:"action"`
	Payload json.RawMessage `json:"payload"`
	Context RequestContext  `json:"context"`
}

// ResultBody carries the success half of an ActionResult.
type ResultBody struct {
	Message    string                 `json:"message,omitempty"`
	ExternalID string                 `json:"externalId,omitempty"`
	Card       *Card                  `json:"card,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// ErrorBody carries the failure half of an ActionResult.
type ErrorBody struct {
	Code          string   `json:"code"`
	Details       string   `json:"details,omitempty"`
	MissingFields []string `json:"missingFields,omitempty"`
}

// ActionResult is the dispatcher's response envelope. Every dispatch,
// success or failure, yields a well-formed result so the UI never shows a
// stuck state.
type ActionResult struct {
	OK            bool        `json:"ok"`
	Action        Action      `json:"action"`
	CorrelationID string      `json:"correlationId"`
	Result        *ResultBody `json:"result,omitempty"`
	Error         *ErrorBody  `json:"error,omitempty"`
}
