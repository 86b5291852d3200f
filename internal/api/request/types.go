package request

// RegisterRequest is the request body for claiming a money number
type RegisterRequest struct {
	Name string `json:"name"`
}

// AdminLoginRequest is the request body for admin authentication
type AdminLoginRequest struct {
	Secret string `json:"secret"`
}
