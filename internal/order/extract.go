// Package order turns raw assistant replies into confirmed orders.
package order

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PabloGalante/gourmetgo/internal/domain"
)

// Outcome classifies what Extract found in a reply.
type Outcome int

const (
	// OutcomeNoFence means the reply carries no ```json block.
	OutcomeNoFence Outcome = iota
	// OutcomeMalformed means the first json block is not valid JSON.
	OutcomeMalformed
	// OutcomeIncomplete means the block decoded but is not an object, or
	// items or deliveryTime was missing or empty.
	OutcomeIncomplete
	// OutcomeConfirmed means the block is a usable order.
	OutcomeConfirmed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoFence:
		return "no_fence"
	case OutcomeMalformed:
		return "malformed"
	case OutcomeIncomplete:
		return "incomplete"
	case OutcomeConfirmed:
		return "confirmed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the tagged outcome of Extract. Order is set only when
// Outcome is OutcomeConfirmed; Err is set for malformed and incomplete
// payloads and always wraps domain.ErrMalformedOrder.
type Result struct {
	Outcome Outcome
	Order   *domain.OrderDetails
	Err     error
}

// Confirmed reports whether the reply contained a usable order.
func (r Result) Confirmed() bool {
	return r.Outcome == OutcomeConfirmed && r.Order != nil
}

var fencePattern = regexp.MustCompile("(?s)```json\\r?\\n(.*?)\\r?\\n```")

// Extract looks for the first fenced json block in text and validates it
// as an order. It never panics and has no side effects.
func Extract(text string) Result {
	m := fencePattern.FindStringSubmatch(text)
	if m == nil || m[1] == "" {
		return Result{Outcome: OutcomeNoFence}
	}
	payload := []byte(m[1])

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		if json.Valid(payload) {
			return incomplete("payload is not an object")
		}
		return malformed(err)
	}
	if fields == nil {
		// "null" decodes without error into a nil map.
		return incomplete("payload is null")
	}

	if !truthy(fields["items"]) {
		return incomplete("items missing or empty")
	}
	if !truthy(fields["deliveryTime"]) {
		return incomplete("deliveryTime missing or empty")
	}

	details := &domain.OrderDetails{
		Items:        decodeItems(fields["items"]),
		DeliveryTime: looseText(fields["deliveryTime"]),
	}

	return Result{Outcome: OutcomeConfirmed, Order: details}
}

func malformed(err error) Result {
	return Result{
		Outcome: OutcomeMalformed,
		Err:     fmt.Errorf("%w: %v", domain.ErrMalformedOrder, err),
	}
}

func incomplete(reason string) Result {
	return Result{
		Outcome: OutcomeIncomplete,
		Err:     fmt.Errorf("%w: %s", domain.ErrMalformedOrder, reason),
	}
}

// truthy mirrors a JavaScript truthiness check on a raw JSON value:
// absent, null, false, 0 and "" are false; arrays and objects are true
// even when empty.
func truthy(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return false
	}
	switch string(v) {
	case "null", "false", `""`:
		return false
	}
	if v[0] == '-' || (v[0] >= '0' && v[0] <= '9') {
		var f float64
		if err := json.Unmarshal(v, &f); err == nil {
			return f != 0
		}
	}
	return true
}

// decodeItems reads the items value without checking each entry's shape.
// An object is taken as a single item; any other scalar yields no items.
func decodeItems(v json.RawMessage) []domain.OrderItem {
	var list []json.RawMessage
	if err := json.Unmarshal(v, &list); err != nil {
		var single map[string]json.RawMessage
		if err := json.Unmarshal(v, &single); err != nil || single == nil {
			return []domain.OrderItem{}
		}
		list = []json.RawMessage{v}
	}

	items := make([]domain.OrderItem, 0, len(list))
	for _, entry := range list {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(entry, &fields); err != nil || fields == nil {
			// Bare values such as "Coke" are read as the item name.
			items = append(items, domain.OrderItem{Name: looseText(entry), Quantity: 1})
			continue
		}
		items = append(items, domain.OrderItem{
			Name:     looseText(fields["name"]),
			Quantity: looseQuantity(fields["quantity"]),
			Notes:    looseText(fields["notes"]),
		})
	}
	return items
}

// looseQuantity accepts integers, integral floats and numeric strings.
// Anything else, including a missing value, counts as 1.
func looseQuantity(v json.RawMessage) int {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || string(v) == "null" {
		return 1
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return 1
		}
		f, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 1
		}
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 1
	}
	return int(f)
}

// looseText renders a JSON value as display text. Strings are used as is,
// arrays of strings are joined, null is empty and anything else keeps its
// compact JSON form.
func looseText(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || string(v) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	var parts []string
	if err := json.Unmarshal(v, &parts); err == nil {
		return strings.Join(parts, ", ")
	}
	var out bytes.Buffer
	if err := json.Compact(&out, v); err != nil {
		return string(v)
	}
	return out.String()
}
