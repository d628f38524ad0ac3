package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound 未匹配到任何记录
var ErrNotFound = errors.New("document not found")

// StoreError 底层存储错误
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
