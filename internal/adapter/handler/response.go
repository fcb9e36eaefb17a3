package handler

// errorResponse is the uniform error envelope returned by every endpoint.
// The zero value of OK marshals as false, which is the point.
type errorResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Code    string `json:"code,omitempty"`
}
