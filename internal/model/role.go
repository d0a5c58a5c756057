package model

// Role is the closed set of account roles known to the system.
type Role string

const (
	RoleInstructor  Role = "INSTRUCTOR"
	RoleParticipant Role = "PARTICIPANT"
)

// ParseRole converts a wire value into a Role, or ErrInvalidRole when
// the value is not one of the known roles. Matching is exact.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleInstructor:
		return RoleInstructor, nil
	case RoleParticipant:
		return RoleParticipant, nil
	}
	return "", ErrInvalidRole
}
