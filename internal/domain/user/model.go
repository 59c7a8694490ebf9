package user

// Principal identifies the authenticated caller of a mutating operation.
type Principal struct {
	UserID string
	Email  string
}
