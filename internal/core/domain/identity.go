package domain

// An Identity is the session state recorded by the login flow.
//
// An identity is present when its email is set. Admin takes precedence
// over user, user over guest.
type Identity struct {
	AdminLoggedIn bool
	AdminEmail    string
	UserLoggedIn  bool
	UserEmail     string
	UserName      string
}

func (id Identity) IsAdmin() bool {
	return id.AdminEmail != ""
}

func (id Identity) IsGuest() bool {
	return id.AdminEmail == "" && id.UserEmail == ""
}

// Email returns the email of the active identity, empty for a guest.
func (id Identity) Email() string {
	if id.AdminEmail != "" {
		return id.AdminEmail
	}
	return id.UserEmail
}

type Credentials struct {
	Email string
	Name  string
	Admin bool
}
