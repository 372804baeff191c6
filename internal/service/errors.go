package service

import "errors"

var (
	ErrNotFound           = errors.New("error not found")
	ErrInsufficientFunds  = errors.New("error insufficient funds")
	ErrInsufficientShares = errors.New("error insufficient shares")
	ErrInvalidInput       = errors.New("error invalid input")
	ErrNoActiveTrade      = errors.New("error no active trade")
)
