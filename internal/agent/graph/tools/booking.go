package tools

import (
	"fmt"
	"hash/fnv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/crewair/booking-assistant/internal/agent/model"
)

const referenceSpace = 100000

// Simulator produces simulated bookings. Nothing is reserved or stored.
type Simulator struct {
	catalog *Catalog
}

func NewSimulator(catalog *Catalog) *Simulator {
	return &Simulator{catalog: catalog}
}

// Book builds a confirmation for the passenger. Inputs are not validated.
// The reference depends only on the three inputs, so different bookings may
// share one.
func (s *Simulator) Book(city, name, email string) model.BookingRecord {
	ref := Reference(city, name, email)
	price := s.catalog.PriceOf(city)
	msg := fmt.Sprintf(
		"SIMULATION - Booking Confirmed!\nDestination: %s\nPassenger: %s\nEmail: %s\nPrice: %s\nBooking Reference: %s",
		titleCase(city), name, email, price, ref,
	)
	return model.BookingRecord{
		Reference:     ref,
		Destination:   city,
		PassengerName: name,
		Email:         email,
		Price:         price,
		Message:       msg,
	}
}

// Reference formats SIM-NNNNN from an FNV-1a hash of city+name+email.
func Reference(city, name, email string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(city + name + email))
	return fmt.Sprintf("SIM-%05d", h.Sum64()%referenceSpace)
}

// titleCase builds a fresh Caser per call; Casers are stateful.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
