package cards

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/agentstation/cardmap/pkg/records"
)

// Amount is a money figure that keeps the form it was written in. A seed or
// record holding 120 writes back 120; one holding 120.0 writes 120.0.
type Amount struct {
	Value float64
	Whole bool
}

// Dollars returns a float amount, written with a decimal point.
func Dollars(f float64) Amount {
	return Amount{Value: f}
}

// Number returns the amount as a record number.
func (a Amount) Number() json.Number {
	if a.Whole && a.Value == float64(int64(a.Value)) {
		return json.Number(strconv.FormatInt(int64(a.Value), 10))
	}
	n, _ := records.Number(a.Value)
	return n
}

func (a Amount) String() string {
	return a.Number().String()
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Number()), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.parse(string(bytes.TrimSpace(data)))
}

// UnmarshalYAML implements yaml.BytesUnmarshaler.
func (a *Amount) UnmarshalYAML(data []byte) error {
	return a.parse(strings.TrimSpace(string(data)))
}

func (a *Amount) parse(lit string) error {
	switch lit {
	case "", "null", "~":
		*a = Amount{}
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(lit, "_", ""), 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", lit)
	}
	*a = Amount{Value: f, Whole: !strings.ContainsAny(lit, ".eE")}
	return nil
}
