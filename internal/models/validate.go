package models

import "errors"

var (
	errEmptyName     = errors.New("name must not be empty")
	errEmptyCategory = errors.New("category must not be empty")
	errNegativePrice = errors.New("price must not be negative")
	errBadSellDate   = errors.New("sell_date must be a YYYY-MM-DD date")
)
