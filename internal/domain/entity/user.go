package entity

// Roles de usuario.
const (
	RoleAdmin       = "ADMIN"
	RoleDirector    = "DIRECTOR"
	RoleSiteManager = "SITE_MANAGER"
	RolePurchasing  = "PURCHASING"
)

// User usuario de la aplicación. AssignedSiteID restringe la vista de un SITE_MANAGER a su obra.
type User struct {
	ID             string
	Username       string
	Name           string
	Role           string
	AssignedSiteID string
	PasswordHash   string // bcrypt; vacío cuando el proveedor remoto no lo expone
}
