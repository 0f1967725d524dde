package actions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/bluepeak/home-services-platform/internal/audit"
	"github.com/bluepeak/home-services-platform/internal/capacity"
	"github.com/bluepeak/home-services-platform/internal/housecall"
	"github.com/bluepeak/home-services-platform/internal/observability/metrics"
	"github.com/bluepeak/home-services-platform/pkg/logging"
)

// CRM is the slice of the scheduling/CRM system the dispatcher needs. The
// CRM is the sole system of record; the dispatcher never stores anything.
type CRM interface {
	LookupCustomer(ctx context.Context, term string) ([]housecall.Customer, error)
	CreateLead(ctx context.Context, req housecall.LeadRequest) (string, error)
	BookServiceCall(ctx context.Context, req housecall.BookingRequest, idempotencyKey string) (*housecall.Job, error)
}

// CapacityCalculator produces per-date availability snapshots.
type CapacityCalculator interface {
	Calculate(ctx context.Context, date time.Time, zip string) (*capacity.Snapshot, error)
}

// Config carries the business knobs the handlers need.
type Config struct {
	// LeadSource tags leads created from the chat flow.
	LeadSource string
	// BusinessPhone is offered as the human fallback when booking fails.
	BusinessPhone string
	// DateWindowDays is how many days the date picker offers.
	DateWindowDays int
	// Location is the business's timezone; "today" in the date picker is
	// the business's calendar day, not the server's.
	Location *time.Location
}

// handler is one entry in the dispatch table: decode-and-validate, then
// run. run only sees payloads that passed validation.
type handler struct {
	parse func(raw json.RawMessage) (interface{}, *ErrorBody)
	run   func(ctx context.Context, payload interface{}, correlationID string) (*ResultBody, *ErrorBody)
}

// Dispatcher routes booking actions to their handlers. It is stateless:
// every multi-step flow field arrives in the payload, and at most one CRM
// call happens per action.
type Dispatcher struct {
	crm        CRM
	calculator CapacityCalculator
	recorder   *audit.Recorder
	metrics    *metrics.DispatchMetrics
	logger     *logging.Logger
	cfg        Config

	table map[Action]handler
	now   func() time.Time
}

// NewDispatcher wires the dispatch table. recorder and m may be nil.
func NewDispatcher(crm CRM, calculator CapacityCalculator, recorder *audit.Recorder, m *metrics.DispatchMetrics, cfg Config, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	if recorder == nil {
		recorder = audit.NewRecorder(nil, logger)
	}
	if cfg.DateWindowDays <= 0 {
		cfg.DateWindowDays = 14
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	d := &Dispatcher{
		crm:        crm,
		calculator: calculator,
		recorder:   recorder,
		metrics:    m,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
	}
	d.table = map[Action]handler{
		ActionSubmitLead:         parseWith(leadPayload{}, d.handleSubmitLead),
		ActionSearchCustomer:     parseWith(searchCustomerPayload{}, d.handleSearchCustomer),
		ActionNewCustomer:        {parse: parseNone, run: d.handleNewCustomer},
		ActionSelectCustomer:     parseWith(selectCustomerPayload{}, d.handleSelectCustomer),
		ActionSubmitCustomerInfo: parseWith(customerInfoPayload{}, d.handleSubmitCustomerInfo),
		ActionSelectDate:         parseWith(selectDatePayload{}, d.handleSelectDate),
		ActionSelectTime:         parseWith(selectTimePayload{}, d.handleSelectTime),
		ActionBooking:            parseWith(bookingPayload{}, d.handleBooking),
	}
	return d
}

// validatable is implemented by every payload schema.
type validatable interface {
	validate() *ErrorBody
}

// parseWith builds a handler entry for a typed payload schema.
func parseWith[P validatable](_ P, run func(ctx context.Context, payload P, correlationID string) (*ResultBody, *ErrorBody)) handler {
	return handler{
		parse: func(raw json.RawMessage) (interface{}, *ErrorBody) {
			var payload P
			if errBody := decodePayload(raw, &payload); errBody != nil {
				return nil, errBody
			}
			if errBody := payload.validate(); errBody != nil {
				return nil, errBody
			}
			return payload, nil
		},
		run: func(ctx context.Context, payload interface{}, correlationID string) (*ResultBody, *ErrorBody) {
			return run(ctx, payload.(P), correlationID)
		},
	}
}

func parseNone(json.RawMessage) (interface{}, *ErrorBody) {
	return nil, nil
}

// Dispatch validates and executes one action, returning a well-formed
// result for every input. Flow per request: validate, audit pending, run
// the handler (at most one CRM call), audit terminal, respond.
func (d *Dispatcher) Dispatch(ctx context.Context, req ActionRequest) ActionResult {
	correlationID := uuid.NewString()
	start := d.now()

	h, known := d.table[req.Action]
	if !known {
		d.logger.Warn("actions: unknown action", "action", req.Action, "thread_id", req.Context.ThreadID)
		d.recorder.Failed(ctx, correlationID, string(req.Action), req.Context.ThreadID, "unknown action")
		d.metrics.ObserveDispatch(string(req.Action), "unknown", d.now().Sub(start).Seconds())
		return ActionResult{
			OK:            false,
			Action:        req.Action,
			CorrelationID: correlationID,
			Error:         &ErrorBody{Code: CodeUnknownAction, Details: "unrecognized action"},
		}
	}

	payload, errBody := h.parse(req.Payload)
	if errBody != nil {
		d.recorder.Failed(ctx, correlationID, string(req.Action), req.Context.ThreadID, errBody.Details)
		d.metrics.ObserveDispatch(string(req.Action), "invalid", d.now().Sub(start).Seconds())
		return ActionResult{
			OK:            false,
			Action:        req.Action,
			CorrelationID: correlationID,
			Error:         errBody,
		}
	}

	d.recorder.Pending(ctx, correlationID, string(req.Action), req.Context.ThreadID, req.Payload)

	result, errBody := d.runSafely(ctx, h, payload, correlationID)
	if errBody != nil {
		d.recorder.Failed(ctx, correlationID, string(req.Action), req.Context.ThreadID, errBody.Details)
		d.metrics.ObserveDispatch(string(req.Action), "failed", d.now().Sub(start).Seconds())
		return ActionResult{
			OK:            false,
			Action:        req.Action,
			CorrelationID: correlationID,
			Error:         errBody,
		}
	}

	d.recorder.Success(ctx, correlationID, string(req.Action), req.Context.ThreadID, result.ExternalID)
	d.metrics.ObserveDispatch(string(req.Action), "success", d.now().Sub(start).Seconds())
	return ActionResult{
		OK:            true,
		Action:        req.Action,
		CorrelationID: correlationID,
		Result:        result,
	}
}

// runSafely converts handler panics into INTERNAL_ERROR instead of tearing
// down the request.
func (d *Dispatcher) runSafely(ctx context.Context, h handler, payload interface{}, correlationID string) (result *ResultBody, errBody *ErrorBody) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("actions: handler panic", "panic", r, "correlation_id", correlationID)
			result = nil
			errBody = &ErrorBody{Code: CodeInternalError, Details: "unexpected error handling action"}
		}
	}()
	return h.run(ctx, payload, correlationID)
}
