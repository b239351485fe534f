package apierror

// ApiError is the body of every non 2xx response.
type ApiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

const (
	TypeBadRequest = "BAD_REQUEST"
	TypeNotFound   = "NOT_FOUND"
	TypeError      = "ERROR"
)
