package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/application/ports/in"
	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/domain"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/logger"
)

func TestReassignMechanic(t *testing.T) {
	booking := pendingBooking("b-1")
	repo := newFakeBookingRepo(booking)
	mechanics := newFakeMechanicRepo(&domain.Mechanic{ID: "mech-2", Name: "Anil"})

	svc := NewReassignMechanicService(repo, mechanics, logger.NewTestLogger())

	updated, err := svc.Execute(context.Background(), in.ReassignMechanicInput{
		BookingID:  "b-1",
		MechanicID: "mech-2",
	})
	require.NoError(t, err)
	require.NotNil(t, updated.MechanicID)
	assert.Equal(t, "mech-2", *updated.MechanicID)
	assert.Equal(t, domain.StatusPending, updated.Status)
}

func TestReassignMechanicUnknownMechanic(t *testing.T) {
	booking := pendingBooking("b-1")
	repo := newFakeBookingRepo(booking)

	svc := NewReassignMechanicService(repo, newFakeMechanicRepo(), logger.NewTestLogger())

	_, err := svc.Execute(context.Background(), in.ReassignMechanicInput{
		BookingID:  "b-1",
		MechanicID: "missing",
	})
	require.ErrorIs(t, err, domain.ErrMechanicNotFound)
	assert.Empty(t, repo.lastMechanicW)
}

func TestReassignMechanicUnknownBooking(t *testing.T) {
	mechanics := newFakeMechanicRepo(&domain.Mechanic{ID: "mech-2"})

	svc := NewReassignMechanicService(newFakeBookingRepo(), mechanics, logger.NewTestLogger())

	_, err := svc.Execute(context.Background(), in.ReassignMechanicInput{
		BookingID:  "missing",
		MechanicID: "mech-2",
	})
	require.ErrorIs(t, err, domain.ErrBookingNotFound)
}
