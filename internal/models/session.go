package models

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
)

// ParseRole maps the role string returned by the role lookup
func ParseRole(s string) (UserRole, bool) {
	switch UserRole(s) {
	case RoleStudent:
		return RoleStudent, true
	case RoleTeacher:
		return RoleTeacher, true
	default:
		return "", false
	}
}

// Session is the logged-in user. It lives until logout.
type Session struct {
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
}

type ViewKind int

const (
	ViewLoggedOut ViewKind = iota
	ViewStudent
	ViewTeacher
)

// View is the screen a request should land on. Session is nil for ViewLoggedOut.
type View struct {
	Kind    ViewKind
	Session *Session
}

// SelectView picks the view for the given session
func SelectView(s *Session) View {
	if s == nil {
		return View{Kind: ViewLoggedOut}
	}
	switch s.Role {
	case RoleTeacher:
		return View{Kind: ViewTeacher, Session: s}
	case RoleStudent:
		return View{Kind: ViewStudent, Session: s}
	default:
		return View{Kind: ViewLoggedOut}
	}
}

// Path is the browser route rendering the view
func (v View) Path() string {
	switch v.Kind {
	case ViewTeacher:
		return "/teacher"
	case ViewStudent:
		return "/student"
	default:
		return "/login"
	}
}
