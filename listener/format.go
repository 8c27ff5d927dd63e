package listener

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"mmtools/types"

	"github.com/shopspring/decimal"
)

const separator = "--------------------------------------------------"

type field struct {
	Key   string
	Value string
}

// objectFields splits a JSON object into its top-level fields in document
// order. Strings are shown unquoted, everything else as compact JSON.
func objectFields(data []byte) ([]field, error) {
	if !json.Valid(data) {
		return nil, errors.New("invalid JSON")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("not a JSON object")
	}

	var fields []field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}

		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			fields = append(fields, field{Key: key, Value: s})
			continue
		}

		var compact bytes.Buffer
		if err := json.Compact(&compact, raw); err != nil {
			return nil, err
		}
		fields = append(fields, field{Key: key, Value: compact.String()})
	}

	return fields, nil
}

// PrintConfigMessage writes one mm_config payload to w and reports whether it
// parsed as a JSON object.
func PrintConfigMessage(w io.Writer, payload string) bool {
	fmt.Fprintf(w, "Received message: %s\n", payload)

	fields, err := objectFields([]byte(payload))
	if err != nil {
		fmt.Fprintln(w, "Could not parse message as JSON")
	} else {
		fmt.Fprintln(w, "Parsed configuration:")
		for _, f := range fields {
			fmt.Fprintf(w, "  %s: %s\n", f.Key, f.Value)
		}
	}

	fmt.Fprintln(w, separator)
	return err == nil
}

// PrintPositionMessage writes one mm_position_updates payload to w and
// reports whether it was JSON.
func PrintPositionMessage(w io.Writer, payload string) bool {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(payload), "", "  "); err != nil {
		fmt.Fprintf(w, "Received non-JSON data: %s\n", payload)
		return false
	}

	fmt.Fprintln(w, "\nReceived position update:")
	fmt.Fprintln(w, pretty.String())

	if line, ok := summarize([]byte(payload)); ok {
		fmt.Fprintln(w, line)
	}
	return true
}

// summarize recomputes the exposure totals of a market maker position
// snapshot. Payloads without a positions array are not snapshots.
func summarize(data []byte) (string, bool) {
	var summary types.PositionSummary
	if err := json.Unmarshal(data, &summary); err != nil || summary.Positions == nil {
		return "", false
	}

	long, short, pnl := decimal.Zero, decimal.Zero, decimal.Zero
	symbols := make([]string, 0, len(summary.Positions))
	for _, p := range summary.Positions {
		symbols = append(symbols, p.Symbol)
		pnl = pnl.Add(decimal.NewFromFloat(p.UnrealizedPnl))

		notional := decimal.NewFromFloat(p.NotionalUSD)
		switch {
		case p.Size > 0:
			long = long.Add(notional)
		case p.Size < 0:
			short = short.Add(notional)
		}
	}

	return fmt.Sprintf("Summary: %d positions [%s] long=$%s short=$%s pnl=$%s",
		len(summary.Positions), strings.Join(symbols, ","),
		long.StringFixed(2), short.StringFixed(2), pnl.StringFixed(2)), true
}
