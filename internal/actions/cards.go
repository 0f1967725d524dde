package actions

// CardType discriminates the next UI affordance to render.
type CardType string

const (
	CardReturningCustomerLookup CardType = "returning_customer_lookup"
	CardNewCustomerInfo         CardType = "new_customer_info"
	CardDatePicker              CardType = "date_picker"
	CardTimePicker              CardType = "time_picker"
	CardBookingConfirmation     CardType = "booking_confirmation"
)

// TimeWindow is the coarse bucket an express window falls into.
type TimeWindow string

const (
	WindowMorning   TimeWindow = "MORNING"
	WindowMidday    TimeWindow = "MIDDAY"
	WindowAfternoon TimeWindow = "AFTERNOON"
	WindowEvening   TimeWindow = "EVENING"
)

// CustomerMatch is one lookup result presented on a
// returning_customer_lookup card.
type CustomerMatch struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// DateOption is one selectable date on a date_picker card.
type DateOption struct {
	Date           string `json:"date"` // YYYY-MM-DD
	SlotsAvailable int    `json:"slotsAvailable"`
	CapacityState  string `json:"capacityState"`
}

// TimeSlotOption is one selectable window on a time_picker card.
type TimeSlotOption struct {
	SlotID         string     `json:"slotId"`
	TimeSlot       string     `json:"timeSlot"`
	TimeWindow     TimeWindow `json:"timeWindow"`
	AvailableTechs int        `json:"availableTechs"`
}

// Card is the view-model for the next UI step. Exactly the fields for its
// Type are populated; cards are never persisted server-side.
type Card struct {
	Type CardType `json:"type"`

	// returning_customer_lookup
	SearchValue string          `json:"searchValue,omitempty"`
	Results     []CustomerMatch `json:"results,omitempty"`

	// date_picker
	Dates []DateOption `json:"dates,omitempty"`

	// time_picker
	Date  string           `json:"date,omitempty"`
	Slots []TimeSlotOption `json:"slots,omitempty"`

	// booking_confirmation
	ConfirmationNumber string `json:"confirmationNumber,omitempty"`
	ExternalID         string `json:"externalId,omitempty"`
}
