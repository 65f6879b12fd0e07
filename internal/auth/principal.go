package auth

import "github.com/Junior-189/CITT-Project-sub001/internal/roles"

// Principal is the verified identity attached to a request after token
// verification. Role reflects the user row read during verification, not
// whatever the token was issued with.
type Principal struct {
	ID    string     `json:"id"`
	Email string     `json:"email"`
	Name  string     `json:"name"`
	Role  roles.Role `json:"role"`
}
