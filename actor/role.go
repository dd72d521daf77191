package actor

// Role tags what part an actor plays in the story. Player identification is
// done by role, never by a reserved ID.
type Role int

const (
	RoleNone Role = iota
	// RolePlayer is the actor controlled by the user. It is the only role
	// allowed to trigger interactions and teleports.
	RolePlayer
	// RoleCompanion follows the player and is relocated with it.
	RoleCompanion
	RoleNPC
)

func (r Role) String() string {
	switch r {
	case RolePlayer:
		return "player"
	case RoleCompanion:
		return "companion"
	case RoleNPC:
		return "npc"
	default:
		return "none"
	}
}

// Protagonist reports whether r is one of the party roles.
func (r Role) Protagonist() bool {
	return r == RolePlayer || r == RoleCompanion
}
