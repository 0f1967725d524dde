package actions

import (
	"encoding/json"
	"strings"
	"time"
)

// Payload schemas, one per action. Fields the UI round-trips from earlier
// steps (selected date, customer id) arrive here rather than from any
// server-side session.

type addressPayload struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

type leadPayload struct {
	Name             string `json:"name"`
	Phone            string `json:"phone"`
	IssueDescription string `json:"issueDescription"`
}

type searchCustomerPayload struct {
	Query string `json:"query"`
}

type customerPayload struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Phone   string         `json:"phone"`
	Email   string         `json:"email"`
	Address addressPayload `json:"address"`
}

type selectCustomerPayload struct {
	Customer customerPayload `json:"customer"`
}

type customerInfoPayload struct {
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Phone     string         `json:"phone"`
	Email     string         `json:"email"`
	Address   addressPayload `json:"address"`
}

type selectDatePayload struct {
	Date string `json:"date"` // YYYY-MM-DD
	Zip  string `json:"zip"`
}

type selectTimePayload struct {
	SlotID     string `json:"slotId"`
	TimeWindow string `json:"timeWindow"`
	Date       string `json:"date"`
}

type bookingPayload struct {
	FirstName   string         `json:"firstName"`
	LastName    string         `json:"lastName"`
	Phone       string         `json:"phone"`
	Email       string         `json:"email"`
	Address     addressPayload `json:"address"`
	ServiceType string         `json:"serviceType"`
	Description string         `json:"description"`
	Date        string         `json:"date"`
	TimeWindow  string         `json:"timeWindow"`
}

// decodePayload parses raw JSON into the action's schema. A nil raw payload
// decodes as an empty object so required-field checks report paths instead
// of a parse error.
func decodePayload(raw json.RawMessage, out interface{}) *ErrorBody {
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ErrorBody{Code: CodeValidationError, Details: "payload is not valid JSON for this action"}
	}
	return nil
}

// missingFieldsError builds the standard validation failure for the given
// failed field paths.
func missingFieldsError(fields []string) *ErrorBody {
	return &ErrorBody{
		Code:          CodeValidationError,
		Details:       "missing required fields: " + strings.Join(fields, ", "),
		MissingFields: fields,
	}
}

func (p leadPayload) validate() *ErrorBody {
	var missing []string
	if strings.TrimSpace(p.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(p.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(p.IssueDescription) == "" {
		missing = append(missing, "issueDescription")
	}
	if len(missing) > 0 {
		return missingFieldsError(missing)
	}
	return nil
}

func (p searchCustomerPayload) validate() *ErrorBody {
	if strings.TrimSpace(p.Query) == "" {
		return missingFieldsError([]string{"query"})
	}
	return nil
}

func (p selectCustomerPayload) validate() *ErrorBody {
	var missing []string
	if strings.TrimSpace(p.Customer.ID) == "" {
		missing = append(missing, "customer.id")
	}
	if strings.TrimSpace(p.Customer.Name) == "" {
		missing = append(missing, "customer.name")
	}
	if len(missing) > 0 {
		return missingFieldsError(missing)
	}
	return nil
}

func (p customerInfoPayload) validate() *ErrorBody {
	var missing []string
	if strings.TrimSpace(p.FirstName) == "" {
		missing = append(missing, "firstName")
	}
	if strings.TrimSpace(p.LastName) == "" {
		missing = append(missing, "lastName")
	}
	if strings.TrimSpace(p.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(p.Address.Street) == "" {
		missing = append(missing, "address.street")
	}
	if len(missing) > 0 {
		return missingFieldsError(missing)
	}
	return nil
}

func (p selectDatePayload) validate() *ErrorBody {
	if strings.TrimSpace(p.Date) == "" {
		return missingFieldsError([]string{"date"})
	}
	if _, err := time.Parse("2006-01-02", p.Date); err != nil {
		return &ErrorBody{
			Code:          CodeValidationError,
			Details:       "date must be formatted YYYY-MM-DD",
			MissingFields: []string{"date"},
		}
	}
	return nil
}

func (p selectTimePayload) validate() *ErrorBody {
	var missing []string
	if strings.TrimSpace(p.SlotID) == "" {
		missing = append(missing, "slotId")
	}
	if strings.TrimSpace(p.TimeWindow) == "" {
		missing = append(missing, "timeWindow")
	}
	if strings.TrimSpace(p.Date) == "" {
		missing = append(missing, "date")
	}
	if len(missing) > 0 {
		return missingFieldsError(missing)
	}
	return nil
}

func (p bookingPayload) validate() *ErrorBody {
	var missing []string
	if strings.TrimSpace(p.FirstName) == "" {
		missing = append(missing, "firstName")
	}
	if strings.TrimSpace(p.LastName) == "" {
		missing = append(missing, "lastName")
	}
	if strings.TrimSpace(p.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(p.Address.Street) == "" {
		missing = append(missing, "address.street")
	}
	if strings.TrimSpace(p.Address.City) == "" {
		missing = append(missing, "address.city")
	}
	if strings.TrimSpace(p.Address.State) == "" {
		missing = append(missing, "address.state")
	}
	if strings.TrimSpace(p.Address.Zip) == "" {
		missing = append(missing, "address.zip")
	}
	if strings.TrimSpace(p.ServiceType) == "" {
		missing = append(missing, "serviceType")
	}
	if strings.TrimSpace(p.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(p.TimeWindow) == "" {
		missing = append(missing, "timeWindow")
	}
	if len(missing) > 0 {
		return missingFieldsError(missing)
	}
	return nil
}
