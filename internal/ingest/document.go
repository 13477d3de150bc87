package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// document mirrors the upstream extractor output.
type document struct {
	HotelName     string         `json:"hotel_name" yaml:"hotel_name"`
	Location      string         `json:"location,omitempty" yaml:"location,omitempty"`
	CheckIn       string         `json:"check_in" yaml:"check_in"`
	CheckOut      string         `json:"check_out" yaml:"check_out"`
	Currency      string         `json:"currency,omitempty" yaml:"currency,omitempty"`
	InvoiceNumber string         `json:"invoice_number,omitempty" yaml:"invoice_number,omitempty"`
	TotalAmount   amount         `json:"total_amount" yaml:"total_amount"`
	LineItems     []lineItemNode `json:"line_items" yaml:"line_items"`
}

type lineItemNode struct {
	Description       string `json:"description" yaml:"description"`
	SuggestedCategory string `json:"suggested_category,omitempty" yaml:"suggested_category,omitempty"`
	UserCategory      string `json:"user_category,omitempty" yaml:"user_category,omitempty"`
	Amount            amount `json:"amount" yaml:"amount"`
}

// amount keeps the exact source text of a monetary value. Both quoted
// strings and bare numeric literals are accepted; neither passes through
// float64.
type amount struct {
	text string
	set  bool
}

func amountOf(d decimal.Decimal) amount {
	if d.Exponent() < -2 {
		return amount{text: d.String(), set: true}
	}
	return amount{text: d.StringFixed(2), set: true}
}

func (a amount) decimal() (decimal.Decimal, error) {
	if !a.set {
		return decimal.Zero, fmt.Errorf("amount is required")
	}
	d, err := decimal.NewFromString(a.text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", a.text)
	}
	return d, nil
}

func (a *amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = amount{}
		return nil
	}
	text := string(data)
	if len(data) > 0 && data[0] == '"' {
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			return fmt.Errorf("invalid amount %s: %w", text, err)
		}
		text = unquoted
	}
	*a = amount{text: strings.TrimSpace(text), set: true}
	return nil
}

func (a amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.text)
}

func (a *amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a scalar", node.Line)
	}
	if node.ShortTag() == "!!null" {
		*a = amount{}
		return nil
	}
	*a = amount{text: strings.TrimSpace(node.Value), set: true}
	return nil
}

func (a amount) MarshalYAML() (any, error) {
	return a.text, nil
}
