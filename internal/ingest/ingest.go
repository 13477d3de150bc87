// Package ingest decodes extracted hotel invoices from JSON or YAML
// documents and encodes reviewed invoices back out.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/hotel-itemizer/internal/model"
)

// ErrMalformedInvoice is returned when a document cannot be turned into an
// invoice. Business-rule problems such as totals that do not reconcile are
// left to the validator.
var ErrMalformedInvoice = errors.New("malformed invoice document")

// DateLayout is the ISO 8601 calendar date format used for stay dates.
const DateLayout = "2006-01-02"

// Format selects the document encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported invoice format %q", name)
	}
}

// FormatForPath picks the format from a file extension, defaulting to JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ReadFile decodes the invoice stored at path.
func ReadFile(path string) (model.InvoiceDetails, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return model.InvoiceDetails{}, fmt.Errorf("failed to read invoice %s: %w", path, err)
	}
	inv, err := Decode(bytes.NewReader(data), FormatForPath(path))
	if err != nil {
		return model.InvoiceDetails{}, fmt.Errorf("%s: %w", path, err)
	}
	return inv, nil
}

// Decode reads one invoice document from r.
func Decode(r io.Reader, format Format) (model.InvoiceDetails, error) {
	var doc document

	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return model.InvoiceDetails{}, fmt.Errorf("%w: %v", ErrMalformedInvoice, err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return model.InvoiceDetails{}, fmt.Errorf("%w: %v", ErrMalformedInvoice, err)
		}
	default:
		return model.InvoiceDetails{}, fmt.Errorf("unsupported invoice format %q", format)
	}

	return doc.invoice()
}

func (doc document) invoice() (model.InvoiceDetails, error) {
	var problems []string
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	inv := model.InvoiceDetails{
		HotelName:     strings.TrimSpace(doc.HotelName),
		Location:      strings.TrimSpace(doc.Location),
		InvoiceNumber: strings.TrimSpace(doc.InvoiceNumber),
		Currency:      strings.ToUpper(strings.TrimSpace(doc.Currency)),
	}
	if inv.Currency == "" {
		inv.Currency = model.DefaultCurrency
	}

	var err error
	if inv.CheckIn, err = parseDate(doc.CheckIn); err != nil {
		addf("check_in: %v", err)
	}
	if inv.CheckOut, err = parseDate(doc.CheckOut); err != nil {
		addf("check_out: %v", err)
	}
	if inv.TotalAmount, err = doc.TotalAmount.decimal(); err != nil {
		addf("total_amount: %v", err)
	}

	inv.LineItems = make([]model.LineItem, 0, len(doc.LineItems))
	for i, node := range doc.LineItems {
		item := model.LineItem{Description: strings.TrimSpace(node.Description)}

		if item.Amount, err = node.Amount.decimal(); err != nil {
			addf("line_items[%d].amount: %v", i, err)
		}
		if item.SuggestedCategory, err = optionalCategory(node.SuggestedCategory); err != nil {
			addf("line_items[%d].suggested_category: %v", i, err)
		}
		if item.UserCategory, err = optionalCategory(node.UserCategory); err != nil {
			addf("line_items[%d].user_category: %v", i, err)
		}

		inv.LineItems = append(inv.LineItems, item)
	}

	if len(problems) > 0 {
		return model.InvoiceDetails{}, fmt.Errorf("%w: %s", ErrMalformedInvoice, strings.Join(problems, "; "))
	}
	return inv, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

func optionalCategory(name string) (*model.Category, error) {
	if name == "" {
		return nil, nil
	}
	cat, err := model.ParseCategory(name)
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// Encode writes inv in the given format. Amounts are written as strings
// with two fraction digits so a decode of the output is exact.
func Encode(w io.Writer, inv model.InvoiceDetails, format Format) error {
	doc := fromInvoice(inv)

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode invoice: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode invoice: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to flush invoice: %w", err)
		}
	default:
		return fmt.Errorf("unsupported invoice format %q", format)
	}
	return nil
}

// WriteFile encodes inv to path, choosing the format from the extension.
func WriteFile(path string, inv model.InvoiceDetails) error {
	var buf bytes.Buffer
	if err := Encode(&buf, inv, FormatForPath(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write invoice %s: %w", path, err)
	}
	return nil
}

func fromInvoice(inv model.InvoiceDetails) document {
	doc := document{
		HotelName:     inv.HotelName,
		Location:      inv.Location,
		CheckIn:       inv.CheckIn.Format(DateLayout),
		CheckOut:      inv.CheckOut.Format(DateLayout),
		Currency:      inv.Currency,
		InvoiceNumber: inv.InvoiceNumber,
		TotalAmount:   amountOf(inv.TotalAmount),
		LineItems:     make([]lineItemNode, 0, len(inv.LineItems)),
	}
	for _, item := range inv.LineItems {
		node := lineItemNode{
			Description: item.Description,
			Amount:      amountOf(item.Amount),
		}
		if item.SuggestedCategory != nil {
			node.SuggestedCategory = item.SuggestedCategory.String()
		}
		if item.UserCategory != nil {
			node.UserCategory = item.UserCategory.String()
		}
		doc.LineItems = append(doc.LineItems, node)
	}
	return doc
}
