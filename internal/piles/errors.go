package piles

import "errors"

var (
	ErrSameHolder = errors.New("source and target are the same holder")
)
