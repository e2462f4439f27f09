package pricing

import "github.com/dmayasari/optikpos-backend/pkg/money"

type Quote struct {
	Price   int64  `json:"price"`
	Display string `json:"display"`
}

func newQuote(price int64) Quote {
	return Quote{Price: price, Display: money.Display(price)}
}
