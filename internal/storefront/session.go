package storefront

// Theme is the colour scheme of the storefront.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Session holds per-visitor state: who is signed in and their display
// preferences. Preferences survive Logout.
type Session struct {
	Token    string
	UserID   string
	UserName string
	Theme    Theme
	MenuOpen bool
}

// NewSession returns a signed-out session with the dark theme.
func NewSession() *Session {
	return &Session{Theme: ThemeDark}
}

// LoggedIn reports whether a user is signed in.
func (s *Session) LoggedIn() bool {
	return s.Token != "" && s.UserID != ""
}

func (s *Session) signIn(token, userID, name string) {
	s.Token = token
	s.UserID = userID
	s.UserName = name
}

func (s *Session) signOut() {
	s.Token = ""
	s.UserID = ""
	s.UserName = ""
	s.MenuOpen = false
}

// ToggleTheme switches between the dark and light themes.
func (s *Session) ToggleTheme() Theme {
	if s.Theme == ThemeLight {
		s.Theme = ThemeDark
	} else {
		s.Theme = ThemeLight
	}
	return s.Theme
}

// ToggleMenu flips menu visibility and returns the new state.
func (s *Session) ToggleMenu() bool {
	s.MenuOpen = !s.MenuOpen
	return s.MenuOpen
}
