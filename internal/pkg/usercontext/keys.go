package usercontext

// Session keys written at login and read by the middleware
const (
	AuthKey     = "authenticated"
	KeyUserID   = "user_id"
	KeyUsername = "username"
	KeyIsAdmin  = "isAdmin"
)
