package tools

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referencePattern = regexp.MustCompile(`^SIM-\d{5}$`)

func TestSimulatorBook(t *testing.T) {
	sim := NewSimulator(DefaultCatalog())

	rec := sim.Book("tokyo", "Jane Smith", "jane@x.com")
	require.Regexp(t, referencePattern, rec.Reference)
	assert.Equal(t, "$1400", rec.Price)
	assert.Equal(t, "tokyo", rec.Destination)
	assert.Contains(t, rec.Message, "SIMULATION - Booking Confirmed!")
	assert.Contains(t, rec.Message, "Destination: Tokyo\n")
	assert.Contains(t, rec.Message, "Passenger: Jane Smith\n")
	assert.Contains(t, rec.Message, "Email: jane@x.com\n")
	assert.Contains(t, rec.Message, "Price: $1400\n")
	assert.Contains(t, rec.Message, "Booking Reference: "+rec.Reference)
}

func TestSimulatorReferenceIsStable(t *testing.T) {
	sim := NewSimulator(DefaultCatalog())
	a := sim.Book("Paris", "John Doe", "john@x.com")
	b := sim.Book("Paris", "John Doe", "john@x.com")
	require.Equal(t, a.Reference, b.Reference)
	require.Equal(t, Reference("Paris", "John Doe", "john@x.com"), a.Reference)
}

func TestSimulatorTitleCasesMultiWordCity(t *testing.T) {
	rec := NewSimulator(DefaultCatalog()).Book("new york", "John Doe", "john@x.com")
	assert.Contains(t, rec.Message, "Destination: New York\n")
	assert.Equal(t, PriceNotAvailable, rec.Price)
}

func TestReferenceFormat(t *testing.T) {
	inputs := [][3]string{
		{"", "", ""},
		{"rome", "A B", "a@b.c"},
		{"london", "Sir Reginald Longname", "reggie@example.co.uk"},
	}
	for _, in := range inputs {
		assert.Regexp(t, referencePattern, Reference(in[0], in[1], in[2]))
	}
}
