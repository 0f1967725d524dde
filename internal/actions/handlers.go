package actions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bluepeak/home-services-platform/internal/capacity"
	"github.com/bluepeak/home-services-platform/internal/housecall"
)

// handleSubmitLead captures the lead in the CRM and moves the conversation
// to the returning-customer lookup step.
func (d *Dispatcher) handleSubmitLead(ctx context.Context, p leadPayload, _ string) (*ResultBody, *ErrorBody) {
	leadID, err := d.crm.CreateLead(ctx, housecall.LeadRequest{
		Name:    p.Name,
		Phone:   p.Phone,
		Message: p.IssueDescription,
		Source:  d.cfg.LeadSource,
	})
	if err != nil {
		d.metrics.ObserveCRMCall("create_lead", "error")
		d.logger.Error("actions: create lead failed", "error", err)
		return nil, &ErrorBody{
			Code:    CodeMCPError,
			Details: "we couldn't save your information, please try again",
		}
	}
	d.metrics.ObserveCRMCall("create_lead", "ok")

	firstName := p.Name
	if i := strings.IndexByte(firstName, ' '); i > 0 {
		firstName = firstName[:i]
	}
	return &ResultBody{
		Message:    fmt.Sprintf("Thanks %s! Have you booked with us before? Let's check if we have you on file.", firstName),
		ExternalID: leadID,
		Card: &Card{
			Type:        CardReturningCustomerLookup,
			SearchValue: p.Phone,
		},
	}, nil
}

// handleSearchCustomer looks the visitor up in the CRM. A lookup failure
// never dead-ends the conversation: the visitor proceeds as a new customer
// and is reconciled by phone number when the booking is written.
func (d *Dispatcher) handleSearchCustomer(ctx context.Context, p searchCustomerPayload, _ string) (*ResultBody, *ErrorBody) {
	customers, err := d.crm.LookupCustomer(ctx, p.Query)
	if err != nil {
		d.metrics.ObserveCRMCall("lookup_customer", "error")
		d.logger.Warn("actions: customer lookup failed, degrading to new-customer flow", "error", err)
		return &ResultBody{
			Message: "We couldn't look that up right now, but no problem — let's get your details.",
			Card:    &Card{Type: CardNewCustomerInfo},
		}, nil
	}
	d.metrics.ObserveCRMCall("lookup_customer", "ok")

	if len(customers) == 0 {
		return &ResultBody{
			Message: "We don't have you on file yet. Let's get your details.",
			Card:    &Card{Type: CardNewCustomerInfo},
		}, nil
	}

	results := make([]CustomerMatch, 0, len(customers))
	for _, c := range customers {
		results = append(results, CustomerMatch{
			ID:      c.ID,
			Name:    c.Name(),
			Phone:   c.MobileNumber,
			Address: c.Address.Street,
		})
	}
	return &ResultBody{
		Message: "Welcome back! Is this you?",
		Card: &Card{
			Type:        CardReturningCustomerLookup,
			SearchValue: p.Query,
			Results:     results,
		},
	}, nil
}

func (d *Dispatcher) handleNewCustomer(_ context.Context, _ interface{}, _ string) (*ResultBody, *ErrorBody) {
	return &ResultBody{
		Message: "Let's get you set up. What's your name and address?",
		Card:    &Card{Type: CardNewCustomerInfo},
	}, nil
}

func (d *Dispatcher) handleSelectCustomer(ctx context.Context, p selectCustomerPayload, _ string) (*ResultBody, *ErrorBody) {
	return d.datePickerResult(ctx, p.Customer.Address.Zip)
}

func (d *Dispatcher) handleSubmitCustomerInfo(ctx context.Context, p customerInfoPayload, _ string) (*ResultBody, *ErrorBody) {
	return d.datePickerResult(ctx, p.Address.Zip)
}

// datePickerResult asks the capacity calculator about each of the next N
// calendar days. A failed day degrades to zero slots and NEXT_DAY instead
// of failing the whole card.
func (d *Dispatcher) datePickerResult(ctx context.Context, zip string) (*ResultBody, *ErrorBody) {
	today := d.now().In(d.cfg.Location)
	dates := make([]DateOption, 0, d.cfg.DateWindowDays)
	for i := 0; i < d.cfg.DateWindowDays; i++ {
		day := today.AddDate(0, 0, i)
		opt := DateOption{Date: day.Format("2006-01-02")}

		snap, err := d.calculator.Calculate(ctx, day, zip)
		if err != nil {
			d.logger.Warn("actions: capacity lookup failed for date", "date", opt.Date, "error", err)
			opt.CapacityState = string(capacity.StateNextDay)
		} else {
			opt.SlotsAvailable = len(snap.ExpressWindows)
			opt.CapacityState = string(snap.Overall.State)
		}
		dates = append(dates, opt)
	}

	return &ResultBody{
		Message: "When works best for you?",
		Card: &Card{
			Type:  CardDatePicker,
			Dates: dates,
		},
	}, nil
}

func (d *Dispatcher) handleSelectDate(ctx context.Context, p selectDatePayload, _ string) (*ResultBody, *ErrorBody) {
	date, _ := time.Parse("2006-01-02", p.Date) // format checked during validation

	snap, err := d.calculator.Calculate(ctx, date, p.Zip)
	if err != nil {
		d.logger.Warn("actions: capacity lookup failed for selected date", "date", p.Date, "error", err)
		return &ResultBody{
			Message: "We couldn't load availability for that day — try the next day over.",
			Card:    &Card{Type: CardTimePicker, Date: p.Date},
		}, nil
	}

	slots := make([]TimeSlotOption, 0, len(snap.ExpressWindows))
	for i, w := range snap.ExpressWindows {
		slots = append(slots, TimeSlotOption{
			SlotID:         fmt.Sprintf("%s-%d", p.Date, i),
			TimeSlot:       w.TimeSlot,
			TimeWindow:     bucketFor(w.TimeSlot),
			AvailableTechs: w.AvailableTechs,
		})
	}

	msg := "What time works for you?"
	if len(slots) == 0 {
		msg = "That day is fully booked — pick another date."
	}
	return &ResultBody{
		Message: msg,
		Card: &Card{
			Type:  CardTimePicker,
			Date:  p.Date,
			Slots: slots,
		},
	}, nil
}

// handleSelectTime has nothing to persist; the selection rides forward in
// the booking payload. It only acknowledges and echoes the choice back.
func (d *Dispatcher) handleSelectTime(_ context.Context, p selectTimePayload, _ string) (*ResultBody, *ErrorBody) {
	return &ResultBody{
		Message: fmt.Sprintf("Got it — %s on %s. Let's confirm your details and book it.", p.TimeWindow, p.Date),
		Data: map[string]interface{}{
			"slotId":     p.SlotID,
			"timeWindow": p.TimeWindow,
			"date":       p.Date,
		},
	}, nil
}

// handleBooking performs the one external write of the flow. The request
// correlation id travels as the idempotency key, but the dispatcher never
// retries on its own.
func (d *Dispatcher) handleBooking(ctx context.Context, p bookingPayload, correlationID string) (*ResultBody, *ErrorBody) {
	job, err := d.crm.BookServiceCall(ctx, housecall.BookingRequest{
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Phone:         p.Phone,
		Email:         p.Email,
		Address:       housecall.Address{Street: p.Address.Street, City: p.Address.City, State: p.Address.State, Zip: p.Address.Zip},
		ServiceType:   p.ServiceType,
		Description:   p.Description,
		PreferredDate: p.Date,
		PreferredTime: p.TimeWindow,
	}, correlationID)
	if err != nil {
		d.metrics.ObserveCRMCall("book_service_call", "error")
		d.logger.Error("actions: booking failed", "error", err, "correlation_id", correlationID)
		details := "we couldn't reach our scheduling system — please call us to finish booking"
		if d.cfg.BusinessPhone != "" {
			details = fmt.Sprintf("we couldn't reach our scheduling system — please call us at %s to finish booking", d.cfg.BusinessPhone)
		}
		return nil, &ErrorBody{Code: CodeIntegrationDown, Details: details}
	}
	d.metrics.ObserveCRMCall("book_service_call", "ok")

	confirmation := confirmationNumber(job.ID)
	return &ResultBody{
		Message:    fmt.Sprintf("You're booked for %s on %s! Your confirmation number is %s.", p.TimeWindow, p.Date, confirmation),
		ExternalID: job.ID,
		Card: &Card{
			Type:               CardBookingConfirmation,
			ExternalID:         job.ID,
			ConfirmationNumber: confirmation,
		},
	}, nil
}

// bucketFor maps an express window to a coarse time-of-day bucket by
// matching the window's start time against fixed anchors. Anything
// unrecognized lands in MORNING.
func bucketFor(timeSlot string) TimeWindow {
	start := timeSlot
	if i := strings.Index(timeSlot, " - "); i >= 0 {
		start = timeSlot[:i]
	}
	switch {
	case strings.Contains(start, "11:00"):
		return WindowMidday
	case strings.Contains(start, "14:00"), strings.Contains(start, "2:00 PM"):
		return WindowAfternoon
	case strings.Contains(start, "17:00"), strings.Contains(start, "5:00 PM"):
		return WindowEvening
	default:
		return WindowMorning
	}
}

// confirmationNumber is the last 8 characters of the CRM job id, uppercased.
func confirmationNumber(jobID string) string {
	if len(jobID) > 8 {
		jobID = jobID[len(jobID)-8:]
	}
	return strings.ToUpper(jobID)
}
