package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JioBaba369/Go2Culture-sub001/models"
)

func pendingBooking() *models.Booking {
	return &models.Booking{GuestID: "guest1", HostID: "host1", Status: models.BookingPending}
}

func TestDecideConfirm(t *testing.T) {
	status, recipient, notifType, err := decideConfirm(pendingBooking(), "host1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, status)
	assert.Equal(t, "guest1", recipient, "the guest is told their booking went through")
	assert.Equal(t, models.NotificationBookingConfirmed, notifType)
}

func TestDecideConfirmRejectsNonHost(t *testing.T) {
	_, _, _, err := decideConfirm(pendingBooking(), "guest1")
	assert.ErrorIs(t, err, errNotBookingParty, "only the host confirms")

	_, _, _, err = decideConfirm(pendingBooking(), "stranger")
	assert.ErrorIs(t, err, errNotBookingParty)
}

func TestDecideConfirmRejectsNonPending(t *testing.T) {
	booking := pendingBooking()
	booking.Status = models.BookingCancelled
	_, _, _, err := decideConfirm(booking, "host1")
	assert.ErrorIs(t, err, errBadBookingState)
}

func TestDecideCancelNotifiesTheCounterparty(t *testing.T) {
	_, recipient, notifType, err := decideCancel(pendingBooking(), "guest1")
	require.NoError(t, err)
	assert.Equal(t, "host1", recipient)
	assert.Equal(t, models.NotificationBookingCancelled, notifType)

	_, recipient, _, err = decideCancel(pendingBooking(), "host1")
	require.NoError(t, err)
	assert.Equal(t, "guest1", recipient)
}

func TestDecideCancelRejectsOutsiderAndDoubleCancel(t *testing.T) {
	_, _, _, err := decideCancel(pendingBooking(), "stranger")
	assert.ErrorIs(t, err, errNotBookingParty)

	booking := pendingBooking()
	booking.Status = models.BookingCancelled
	_, _, _, err = decideCancel(booking, "guest1")
	assert.ErrorIs(t, err, errBadBookingState)
}

func TestBookingCounterparty(t *testing.T) {
	booking := pendingBooking()

	got, err := bookingCounterparty(booking, "guest1")
	require.NoError(t, err)
	assert.Equal(t, "host1", got)

	got, err = bookingCounterparty(booking, "host1")
	require.NoError(t, err)
	assert.Equal(t, "guest1", got)

	_, err = bookingCounterparty(booking, "stranger")
	assert.ErrorIs(t, err, errNotBookingParty)
}
