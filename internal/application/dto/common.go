package dto

// OwnerRef referencia (nivel, id) a un propietario de stock en requests.
type OwnerRef struct {
	Level string `json:"level"`
	ID    string `json:"id"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
