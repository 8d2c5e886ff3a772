package ai

import "github.com/shopspring/decimal"

type price struct {
	input  decimal.Decimal // per 1K prompt tokens
	output decimal.Decimal // per 1K completion tokens
}

var pricing = map[string]price{
	"gemini-2.0-flash":      {decimal.RequireFromString("0.0001"), decimal.RequireFromString("0.0004")},
	"gemini-2.0-flash-lite": {decimal.RequireFromString("0.000075"), decimal.RequireFromString("0.0003")},
	"gemini-1.5-flash":      {decimal.RequireFromString("0.000075"), decimal.RequireFromString("0.0003")},
	"gemini-1.5-pro":        {decimal.RequireFromString("0.00125"), decimal.RequireFromString("0.005")},
	"gemini-2.5-pro":        {decimal.RequireFromString("0.00125"), decimal.RequireFromString("0.01")},
}

// unknown models are billed at the most expensive rate
var fallbackPrice = pricing["gemini-2.5-pro"]

var thousand = decimal.NewFromInt(1000)

// CalculateCost returns the approximate USD cost of a call, rounded to 6 places.
func CalculateCost(model string, promptTokens, completionTokens int) decimal.Decimal {
	p, ok := pricing[model]
	if !ok {
		p = fallbackPrice
	}
	in := decimal.NewFromInt(int64(promptTokens)).Div(thousand).Mul(p.input)
	out := decimal.NewFromInt(int64(completionTokens)).Div(thousand).Mul(p.output)
	return in.Add(out).Round(6)
}
