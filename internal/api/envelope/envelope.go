// Package envelope defines the JSON body shared by every API response.
package envelope

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the uniform wrapper: {status, message, data, meta?, errors?, error?}.
type Response struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Data    any                 `json:"data"`
	Meta    *Meta               `json:"meta,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	// Error carries diagnostic text and is only set when debugging is enabled.
	Error string `json:"error,omitempty"`
}

// Meta describes where a page sits in the whole result set.
type Meta struct {
	CurrentPage int     `json:"current_page"`
	LastPage    int     `json:"last_page"`
	PerPage     int     `json:"per_page"`
	Total       int64   `json:"total"`
	NextPageURL *string `json:"next_page_url"`
	PrevPageURL *string `json:"prev_page_url"`
}

func Success(message string, data any) Response {
	return Response{Status: StatusSuccess, Message: message, Data: data}
}

// Paginated wraps one page of items together with its meta block.
func Paginated(message string, data any, meta Meta) Response {
	return Response{Status: StatusSuccess, Message: message, Data: data, Meta: &meta}
}

func Failure(message string) Response {
	return Response{Status: StatusError, Message: message}
}

// WithErrors attaches field-keyed messages.
func (r Response) WithErrors(errs map[string][]string) Response {
	r.Errors = errs
	return r
}

// WithDiagnostic attaches err's text to the response.
func (r Response) WithDiagnostic(err error) Response {
	if err != nil {
		r.Error = err.Error()
	}
	return r
}
