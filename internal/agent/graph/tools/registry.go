package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/crewair/booking-assistant/internal/agent/model"
)

const (
	ToolGetTicketPrice = "get_ticket_price"
	ToolValidateInfo   = "validate_info"
	ToolBookFlight     = "book_flight"
)

// Registry holds the tools offered to the model. It is built once and never
// mutated.
type Registry struct {
	infos  []*schema.ToolInfo
	byName map[string]tool.InvokableTool
}

// NewRegistry declares the flight booking tools over catalog.
func NewRegistry(ctx context.Context, catalog *Catalog) (*Registry, error) {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	simulator := NewSimulator(catalog)
	declared := []tool.InvokableTool{
		createTicketPriceTool(catalog),
		createBookFlightTool(simulator),
		createValidateInfoTool(),
	}

	r := &Registry{
		infos:  make([]*schema.ToolInfo, 0, len(declared)),
		byName: make(map[string]tool.InvokableTool, len(declared)),
	}
	for _, t := range declared {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("tool info: %w", err)
		}
		r.infos = append(r.infos, info)
		r.byName[info.Name] = t
	}
	return r, nil
}

// Infos returns the tool definitions in declaration order.
func (r *Registry) Infos() []*schema.ToolInfo {
	out := make([]*schema.ToolInfo, len(r.infos))
	copy(out, r.infos)
	return out
}

// Lookup returns the declared tool called name.
func (r *Registry) Lookup(name string) (tool.InvokableTool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Names lists the declared tool names in declaration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.infos))
	for _, info := range r.infos {
		names = append(names, info.Name)
	}
	return names
}

// Verify converts every definition to JSON schema so a broken declaration
// fails at startup instead of on the first model call.
func (r *Registry) Verify() error {
	for _, info := range r.infos {
		if _, err := info.ParamsOneOf.ToJSONSchema(); err != nil {
			return fmt.Errorf("tool %s: %w", info.Name, err)
		}
	}
	return nil
}

// ===================================
// Ticket Price Tool
// ===================================

type TicketPriceInput struct {
	DestinationCity string `json:"destination_city"`
}

type TicketPriceOutput struct {
	DestinationCity string `json:"destination_city"`
	Price           string `json:"price"`
}

func createTicketPriceTool(catalog *Catalog) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolGetTicketPrice,
			Desc: "Retrieves the price for a flight ticket to a specific destination. " +
				"Used when users inquire about flight prices or during booking confirmation.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"destination_city": {
					Type:     schema.String,
					Desc:     "The destination city for the flight (case-insensitive)",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *TicketPriceInput) (*TicketPriceOutput, error) {
			out := &TicketPriceOutput{
				DestinationCity: in.DestinationCity,
				Price:           catalog.PriceOf(in.DestinationCity),
			}
			observe(ctx, func(r *Result) {
				r.City, r.Price = out.DestinationCity, out.Price
			})
			return out, nil
		},
	)
}

// ===================================
// Book Flight Tool
// ===================================

type BookFlightInput struct {
	DestinationCity string `json:"destination_city"`
	PassengerName   string `json:"passenger_name"`
	Email           string `json:"email"`
}

type BookFlightOutput struct {
	Success          bool   `json:"success"`
	BookingReference string `json:"booking_reference"`
	Message          string `json:"message"`
}

func createBookFlightTool(simulator *Simulator) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolBookFlight,
			Desc: "Process a flight booking with validated passenger details. " +
				"Called after collecting and validating all required information. " +
				"Creates a simulation booking with a unique reference number.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"destination_city": {
					Type:     schema.String,
					Desc:     "The destination city for the flight booking",
					Required: true,
				},
				"passenger_name": {
					Type:     schema.String,
					Desc:     "Full name of the passenger (first and last name required)",
					Required: true,
				},
				"email": {
					Type:     schema.String,
					Desc:     "Valid email address for booking confirmation",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *BookFlightInput) (*BookFlightOutput, error) {
			rec := simulator.Book(in.DestinationCity, in.PassengerName, in.Email)
			observe(ctx, func(r *Result) {
				r.City, r.Name, r.Email, r.Price = rec.Destination, rec.PassengerName, rec.Email, rec.Price
				r.Booking = &rec
			})
			return &BookFlightOutput{
				Success:          true,
				BookingReference: rec.Reference,
				Message:          rec.Message,
			}, nil
		},
	)
}

// ===================================
// Validate Info Tool
// ===================================

type ValidateInfoInput struct {
	PassengerName string `json:"passenger_name"`
	Email         string `json:"email"`
}

func createValidateInfoTool() tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolValidateInfo,
			Desc: "Validates passenger information before proceeding with booking. " +
				"Checks if the name contains at least two parts and if the email is properly formatted. " +
				"Called before finalizing a booking to ensure data quality.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"passenger_name": {
					Type:     schema.String,
					Desc:     "Full name to validate (must contain at least first and last name)",
					Required: true,
				},
				"email": {
					Type:     schema.String,
					Desc:     "Email address to validate (must contain @ and domain)",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *ValidateInfoInput) (*model.ValidationResult, error) {
			v := Validate(in.PassengerName, in.Email)
			observe(ctx, func(r *Result) {
				r.Name, r.Email, r.Validation = in.PassengerName, in.Email, &v
			})
			return &v, nil
		},
	)
}
