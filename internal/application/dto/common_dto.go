package dto

// ErrorResponse cuerpo estándar de error de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple con un texto (asesor de IA, confirmaciones).
type MessageResponse struct {
	Message string `json:"message"`
}
