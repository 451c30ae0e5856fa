package model

import (
	"github.com/cloudwego/eino/schema"
)

// Pricing is a model's USD rate per 1M text tokens.
type Pricing struct {
	InputPerM  float64
	OutputPerM float64
}

// Cost prices the usage of a single model call.
func (p Pricing) Cost(usage *schema.TokenUsage) float64 {
	if usage == nil {
		return 0
	}
	return (p.InputPerM*float64(usage.PromptTokens) + p.OutputPerM*float64(usage.CompletionTokens)) / 1_000_000.0
}

// RateCard maps model names to their pricing.
type RateCard map[string]Pricing

// DefaultRates is Gemini standard text pricing.
var DefaultRates = RateCard{
	"gemini-2.5-flash":      {InputPerM: 0.30, OutputPerM: 2.50},
	"gemini-2.5-flash-lite": {InputPerM: 0.10, OutputPerM: 0.40},
	"gemini-2.5-pro":        {InputPerM: 1.25, OutputPerM: 10.00},
}

// For returns the pricing of modelName; unknown models cost nothing.
func (c RateCard) For(modelName string) Pricing {
	return c[modelName]
}

// TurnUsage totals the model calls made while answering one user message:
// the tool-offering call and, when tools ran, the follow-up call.
type TurnUsage struct {
	ModelCalls       int
	PromptTokens     int
	CompletionTokens int
	CostUSD          float64
}

// Record adds one model call and returns what that call cost. A call without
// usage metadata still counts.
func (u *TurnUsage) Record(usage *schema.TokenUsage, p Pricing) float64 {
	u.ModelCalls++
	if usage == nil {
		return 0
	}
	cost := p.Cost(usage)
	u.PromptTokens += usage.PromptTokens
	u.CompletionTokens += usage.CompletionTokens
	u.CostUSD += cost
	return cost
}
