package api

// Token is the credential pair issued by the token endpoint.
type Token struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// errorResponse is the body the backend sends alongside 4xx responses.
type errorResponse struct {
	Detail string `json:"detail"`
}
