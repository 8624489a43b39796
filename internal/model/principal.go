package model

import "github.com/google/uuid"

// Principal is the authenticated caller extracted from the access token.
type Principal struct {
	CustomerID uuid.UUID
	Email      string
	Role       string
}

func (p Principal) IsCustomer() bool { return p.Role == "CUSTOMER" }
func (p Principal) IsAdmin() bool    { return p.Role == "ADMIN" }
