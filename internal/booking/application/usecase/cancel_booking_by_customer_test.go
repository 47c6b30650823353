package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/application/ports/in"
	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/domain"
	"github.com/ganesh-basavoju/mechpro-backend/internal/model"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/logger"
)

func TestCustomerCancelNotifiesBothSides(t *testing.T) {
	booking := pendingBooking("b-1")
	repo := newFakeBookingRepo(booking)
	users := newFakeUserRepo(&domain.User{ID: "u-1", Phone: booking.Customer.Phone})
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}

	svc := NewCancelBookingByCustomerService(repo, users, notifier, publisher, logger.NewTestLogger())

	updated, err := svc.Execute(context.Background(), in.CancelBookingByCustomerInput{
		BookingID:      "b-1",
		RequesterPhone: booking.Customer.Phone,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, updated.Status)

	require.Len(t, notifier.dispatches, 2)

	customer := notifier.dispatches[0]
	assert.Equal(t, model.ClassUser, customer.target.Class)
	assert.Equal(t, model.KindBookingUpdate, customer.n.Kind)

	mechanic := notifier.dispatches[1]
	assert.Equal(t, model.ClassMechanic, mechanic.target.Class)
	assert.Equal(t, "mech-1", mechanic.target.ID)
	assert.Equal(t, model.KindBookingCancelled, mechanic.n.Kind)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, domain.EventBookingCancelled, publisher.published[0].eventType)
}

func TestCustomerCancelRejectsNonOwner(t *testing.T) {
	booking := pendingBooking("b-1")
	repo := newFakeBookingRepo(booking)
	notifier := &fakeNotifier{}

	svc := NewCancelBookingByCustomerService(repo, newFakeUserRepo(), notifier, &fakePublisher{}, logger.NewTestLogger())

	_, err := svc.Execute(context.Background(), in.CancelBookingByCustomerInput{
		BookingID:      "b-1",
		RequesterPhone: "+910000000000",
	})
	require.ErrorIs(t, err, domain.ErrNotBookingOwner)
	assert.Zero(t, repo.statusWrites)
	assert.Empty(t, notifier.dispatches)
}

func TestCustomerCancelTwice(t *testing.T) {
	booking := pendingBooking("b-1")
	repo := newFakeBookingRepo(booking)
	users := newFakeUserRepo(&domain.User{ID: "u-1", Phone: booking.Customer.Phone})

	svc := NewCancelBookingByCustomerService(repo, users, &fakeNotifier{}, &fakePublisher{}, logger.NewTestLogger())

	_, err := svc.Execute(context.Background(), in.CancelBookingByCustomerInput{
		BookingID:      "b-1",
		RequesterPhone: booking.Customer.Phone,
	})
	require.NoError(t, err)

	_, err = svc.Execute(context.Background(), in.CancelBookingByCustomerInput{
		BookingID:      "b-1",
		RequesterPhone: booking.Customer.Phone,
	})
	require.ErrorIs(t, err, domain.ErrAlreadyCancelled)
}

func TestCustomerCancelCompletedBooking(t *testing.T) {
	booking := pendingBooking("b-1")
	booking.Status = domain.StatusCompleted
	repo := newFakeBookingRepo(booking)

	svc := NewCancelBookingByCustomerService(repo, newFakeUserRepo(), &fakeNotifier{}, &fakePublisher{}, logger.NewTestLogger())

	_, err := svc.Execute(context.Background(), in.CancelBookingByCustomerInput{
		BookingID:      "b-1",
		RequesterPhone: booking.Customer.Phone,
	})
	require.ErrorIs(t, err, domain.ErrAlreadyCompleted)
	assert.Zero(t, repo.statusWrites)
}

func TestCustomerCancelUnassignedBookingSkipsMechanicNotice(t *testing.T) {
	booking := pendingBooking("b-1")
	booking.MechanicID = nil
	repo := newFakeBookingRepo(booking)
	users := newFakeUserRepo(&domain.User{ID: "u-1", Phone: booking.Customer.Phone})
	notifier := &fakeNotifier{}

	svc := NewCancelBookingByCustomerService(repo, users, notifier, &fakePublisher{}, logger.NewTestLogger())

	_, err := svc.Execute(context.Background(), in.CancelBookingByCustomerInput{
		BookingID:      "b-1",
		RequesterPhone: booking.Customer.Phone,
	})
	require.NoError(t, err)
	require.Len(t, notifier.dispatches, 1)
	assert.Equal(t, model.ClassUser, notifier.dispatches[0].target.Class)
}
