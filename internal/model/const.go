package model

// ActorClass is one of the three participant categories. Each class has its
// own identity space and its own presence map.
type ActorClass string

const (
	ClassUser     ActorClass = "user"
	ClassMechanic ActorClass = "mechanic"
	ClassAdmin    ActorClass = "admin"
)

// Valid reports whether c is one of the known actor classes.
func (c ActorClass) Valid() bool {
	switch c {
	case ClassUser, ClassMechanic, ClassAdmin:
		return true
	}
	return false
}

// ==== Roles (JWT claims carry the same values as ActorClass) ====
const (
	RoleUser     = "user"
	RoleMechanic = "mechanic"
	RoleAdmin    = "admin"
)

// ==== Notification kinds ====
const (
	KindBookingUpdate    = "booking_update"
	KindBookingCancelled = "booking_cancelled"
	KindNewBooking       = "new_booking"
)

// ==== Socket message types (client -> server readiness signals) ====
const (
	MsgRegisterUser     = "register_user"
	MsgRegisterMechanic = "register_mechanic"
	MsgRegisterAdmin    = "register_admin"
)
