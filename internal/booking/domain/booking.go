package domain

import "time"

// Customer is a snapshot taken when the booking is created. It is not a live
// reference; later profile edits do not touch existing bookings.
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// Vehicle is the snapshot of the car the booking is for.
type Vehicle struct {
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  string `json:"year,omitempty"`
	Plate string `json:"plateNumber"`
}

// Booking is the central entity of the marketplace. It is mutated only
// through status transitions and mechanic reassignment; the lifecycle never
// hard-deletes it (administrative delete is a separate, out-of-band path).
type Booking struct {
	ID          string     `json:"id" db:"id"`
	Customer    Customer   `json:"customer"`
	Vehicle     Vehicle    `json:"vehicle"`
	ServiceType string     `json:"serviceType" db:"service_type"`
	MechanicID  *string    `json:"mechanicId,omitempty" db:"mechanic_id"`
	Odometer    int64      `json:"odometerReading" db:"odometer"`
	ScheduledAt time.Time  `json:"dateTime" db:"scheduled_at"`
	Amount      float64    `json:"amount" db:"amount"`
	Status      Status     `json:"status" db:"status"`
	Notes       string     `json:"notes" db:"notes"`
	SpareParts  []string   `json:"spareParts" db:"spare_parts"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// Mechanic is the slice of the mechanic record the booking flow needs.
type Mechanic struct {
	ID            string  `json:"id" db:"id"`
	Name          string  `json:"name" db:"name"`
	Phone         string  `json:"phone" db:"phone"`
	Rating        float64 `json:"rating" db:"rating"`
	TotalBookings int64   `json:"totalBookings" db:"total_bookings"`
	FCMToken      string  `json:"-" db:"fcm_token"`
}

// User is the customer-side account; bookings reference it indirectly via
// the stored customer phone.
type User struct {
	ID       string `json:"id" db:"id"`
	FullName string `json:"fullname" db:"full_name"`
	Phone    string `json:"phone" db:"phone"`
	Email    string `json:"email" db:"email"`
	FCMToken string `json:"-" db:"fcm_token"`
}
