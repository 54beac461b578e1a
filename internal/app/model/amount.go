package model

import (
	"bytes"
	"encoding/json"

	"github.com/ikkim/clientbook-backend/pkg/util"
	"github.com/shopspring/decimal"
)

// Amount is a monetary request value. It accepts JSON numbers and text such
// as "$1,200.50"; negative or unreadable input becomes null.
type Amount struct {
	decimal.NullDecimal
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	a.NullDecimal = decimal.NullDecimal{}
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	text := string(trimmed)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
	}
	if d, ok := util.ParseMoney(text); ok {
		a.NullDecimal = decimal.NewNullDecimal(d)
	}
	return nil
}

func (a Amount) IsNull() bool {
	return !a.Valid
}
