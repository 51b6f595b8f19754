package auth

// Role is the closed set of identities the application knows about.
// Handlers must never compare raw strings; they go through Can.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// Capability names a protected operation class.
type Capability string

const (
	CapManageContent   Capability = "content:manage"
	CapManageQuizzes   Capability = "quiz:manage"
	CapAssignQuizzes   Capability = "quiz:assign"
	CapDraftQuestions  Capability = "question:draft"
	CapTakeQuiz        Capability = "attempt:take"
	CapViewOwnAttempts Capability = "attempt:view-own"
	CapViewAllAttempts Capability = "attempt:view-all"
)

var rolePermissions = map[Role][]Capability{
	RoleAdmin: {
		CapManageContent,
		CapManageQuizzes,
		CapAssignQuizzes,
		CapDraftQuestions,
		CapViewAllAttempts,
	},
	RoleStudent: {
		CapTakeQuiz,
		CapViewOwnAttempts,
	},
}

// ParseRole maps a stored or submitted role string onto the closed enum.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleStudent:
		return RoleStudent, true
	}
	return "", false
}

// Can reports whether the role holds the given capability.
func (r Role) Can(cap Capability) bool {
	for _, c := range rolePermissions[r] {
		if c == cap {
			return true
		}
	}
	return false
}
