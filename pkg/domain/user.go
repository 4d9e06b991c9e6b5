package domain

// User is a registered traveller.
// Only Username is unique; Email and Mobile act as the login "secret".
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
}

// Matches reports whether every field equals the candidate's, case-sensitively.
func (u User) Matches(candidate User) bool {
	return u.Username == candidate.Username &&
		u.Email == candidate.Email &&
		u.Mobile == candidate.Mobile
}
