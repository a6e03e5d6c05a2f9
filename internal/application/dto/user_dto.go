package dto

// LoginInput credenciales de acceso al dashboard.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token emitido tras un login exitoso.
type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// UserDTO representación pública de un usuario (sin hash de contraseña).
type UserDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Username       string `json:"username"`
	Role           string `json:"role"`
	AssignedSiteID string `json:"assignedSiteId,omitempty"`
}

// CreateUserInput alta de un usuario del dashboard.
type CreateUserInput struct {
	Name           string `json:"name" validate:"required"`
	Username       string `json:"username" validate:"required"`
	Password       string `json:"password" validate:"required,min=8"`
	Role           string `json:"role" validate:"required"`
	AssignedSiteID string `json:"assignedSiteId,omitempty"`
}
