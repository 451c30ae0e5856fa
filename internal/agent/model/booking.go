package model

import "github.com/google/uuid"

// BookingStage tracks how far a conversation has progressed towards a booking.
type BookingStage string

const (
	StageInitial   BookingStage = "initial"
	StagePriced    BookingStage = "priced"
	StageValidated BookingStage = "validated"
	StageConfirmed BookingStage = "confirmed"
)

// BookingState is the per-conversation booking context.
// Once Stage is StageConfirmed, Destination, Name, Email and Price are all set.
type BookingState struct {
	ConversationID string       `json:"conversation_id"`
	Destination    string       `json:"destination,omitempty"`
	Name           string       `json:"name,omitempty"`
	Email          string       `json:"email,omitempty"`
	Price          string       `json:"price,omitempty"`
	Stage          BookingStage `json:"stage"`
	Reference      string       `json:"booking_reference,omitempty"`
}

// NewBookingState starts a conversation with a random id.
func NewBookingState() *BookingState {
	return NewBookingStateFor(uuid.NewString())
}

// NewBookingStateFor starts a conversation with a caller-chosen id.
func NewBookingStateFor(conversationID string) *BookingState {
	return &BookingState{ConversationID: conversationID, Stage: StageInitial}
}

// Reset clears all booking fields and assigns a new conversation id.
func (s *BookingState) Reset() {
	*s = *NewBookingState()
}

// Priced records a successful price lookup.
func (s *BookingState) Priced(destination, price string) {
	s.Destination = destination
	s.Price = price
	if s.Stage == StageInitial || s.Stage == "" {
		s.Stage = StagePriced
	}
}

// Validated records passenger details that passed validation.
func (s *BookingState) Validated(name, email string) {
	s.Name = name
	s.Email = email
	if s.Stage != StageConfirmed {
		s.Stage = StageValidated
	}
}

// Confirm applies a simulated booking. It reports false and leaves Stage
// unchanged when any of the required fields would still be empty.
func (s *BookingState) Confirm(rec BookingRecord) bool {
	if rec.Destination == "" || rec.PassengerName == "" || rec.Email == "" || rec.Price == "" {
		return false
	}
	s.Destination = rec.Destination
	s.Name = rec.PassengerName
	s.Email = rec.Email
	s.Price = rec.Price
	s.Reference = rec.Reference
	s.Stage = StageConfirmed
	return true
}

// ValidationResult reports which passenger fields are well formed.
// AllValid is always NameValid && EmailValid.
type ValidationResult struct {
	NameValid  bool `json:"name_valid"`
	EmailValid bool `json:"email_valid"`
	AllValid   bool `json:"all_valid"`
}

// BookingRecord is a simulated booking. It is never persisted and its
// reference is not unique across bookings.
type BookingRecord struct {
	Reference     string `json:"booking_reference"`
	Destination   string `json:"destination_city"`
	PassengerName string `json:"passenger_name"`
	Email         string `json:"email"`
	Price         string `json:"price"`
	Message       string `json:"message"`
}
