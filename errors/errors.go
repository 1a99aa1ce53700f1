package errors

import "fmt"

var (
	ErrMessageNotFound = fmt.Errorf("message not found")
	ErrSinkBusy        = fmt.Errorf("sink buffer full")
)
