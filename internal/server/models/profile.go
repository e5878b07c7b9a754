package models

// Profile is the identity information the User service returns for an
// email. Its fields become claims in issued access tokens.
type Profile struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Role       int    `json:"role"`
	CustomerID string `json:"customerId"`
}
