package housecall

import "time"

// Address is a customer service address.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// Customer is a Housecall Pro customer record.
type Customer struct {
	ID           string  `json:"id"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        string  `json:"email"`
	MobileNumber string  `json:"mobile_number"`
	Address      Address `json:"address"`
}

// Name returns the customer's display name.
func (c Customer) Name() string {
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// LeadRequest captures a new inbound lead.
type LeadRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
	Source  string `json:"source"`
}

// BookingRequest contains everything needed to book a service call.
type BookingRequest struct {
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Phone         string  `json:"phone"`
	Email         string  `json:"email,omitempty"`
	Address       Address `json:"address"`
	ServiceType   string  `json:"service_type"`
	Description   string  `json:"description,omitempty"`
	PreferredDate string  `json:"preferred_date"` // YYYY-MM-DD
	PreferredTime string  `json:"preferred_time"` // window label, e.g. "MORNING"
}

// Job is a scheduled (or newly booked) service call.
type Job struct {
	ID             string     `json:"id"`
	WorkStatus     string     `json:"work_status"`
	ScheduledStart *time.Time `json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time `json:"scheduled_end,omitempty"`
}

type customersResponse struct {
	Customers []Customer `json:"customers"`
}

type leadResponse struct {
	Lead struct {
		ID string `json:"id"`
	} `json:"lead"`
}

type jobResponse struct {
	Job Job `json:"job"`
}

type jobsResponse struct {
	Jobs []Job `json:"jobs"`
}

type employeesResponse struct {
	Employees []struct {
		ID           string `json:"id"`
		Role         string `json:"role"`
		Dispatchable bool   `json:"dispatchable"`
	} `json:"employees"`
}
