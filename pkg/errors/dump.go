package errors

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	SheetsHTTPStatus int    `json:"sheets_http_status,omitempty"`
	SheetsMessage    string `json:"sheets_message,omitempty"`
}

// Dump flattens an error chain for structured logging, surfacing Google API
// failures (quota, permission, bad range) when the sheets client is the cause.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		d.SheetsHTTPStatus = apiErr.Code
		d.SheetsMessage = apiErr.Message
	}

	return d
}
