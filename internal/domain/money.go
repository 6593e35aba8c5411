package domain

import "github.com/shopspring/decimal"

func init() {
	// valores monetários trafegam como números no JSON, não como strings
	decimal.MarshalJSONWithoutQuotes = true
}
