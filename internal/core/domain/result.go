package domain

import "errors"

// ResultType tags an ActionResult.
type ResultType string

const (
	ResultSuccess ResultType = "success"
	ResultError   ResultType = "error"
)

// ActionResult is what every form action reports back to the page as a toast.
// Message and field errors hold either catalog keys or literal text from the
// backend; Args fill the catalog message's placeholders.
type ActionResult struct {
	Type    ResultType  `json:"type"`
	Message string      `json:"message"`
	Args    []any       `json:"-"`
	Errors  FieldErrors `json:"errors,omitempty"`
}

// Failure builds an error result from err. Field errors from validation and
// backend failures are carried over.
func Failure(msg string, err error) ActionResult {
	res := ActionResult{Type: ResultError, Message: msg}

	var ve *ValidationError
	if errors.As(err, &ve) {
		res.Errors = ve.Fields
		return res
	}

	var re *RemoteError
	if errors.As(err, &re) {
		if re.Message != "" {
			res.Message = re.Message
		}
		res.Errors = re.Fields
	}
	return res
}
