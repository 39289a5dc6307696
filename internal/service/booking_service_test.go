package service_test

import (
	"testing"
	"time"

	"conciergego/backend/internal/models"
	"conciergego/backend/internal/service"
	"conciergego/backend/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBookingService(store *MockStorage, notifier *spyNotifier) *service.BookingService {
	return service.NewBookingService(store, store, store, notifier, zerolog.Nop())
}

func confirmInput() service.ConfirmInput {
	return service.ConfirmInput{
		StartAt: time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC),
		Notes:   "table by the window",
	}
}

func expectConversationAndRequest(store *MockStorage, status models.RequestStatus, vendorID *uint) {
	store.On("GetConversationByID", uint(5)).Return(&models.Conversation{ID: 5, RequestID: 3, UserID: 7}, nil)
	store.On("GetRequestByID", uint(3)).Return(&models.Request{ID: 3, UserID: 7, Status: status, VendorID: vendorID}, nil)
}

func TestConfirmConversation_FromNew(t *testing.T) {
	store := new(MockStorage)
	notifier := &spyNotifier{}
	svc := newBookingService(store, notifier)

	expectConversationAndRequest(store, models.RequestStatusNew, nil)
	store.On("UpdateRequest", mock.MatchedBy(func(r *models.Request) bool {
		return r.Status == models.RequestStatusInProgress
	})).Return(nil).Once()
	store.On("SaveBooking", mock.AnythingOfType("*models.Booking")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Booking).ID = 9
	}).Return(nil).Once()

	booking, err := svc.ConfirmConversation(5, 42, confirmInput())
	require.NoError(t, err)

	assert.Equal(t, uint(9), booking.ID)
	assert.Equal(t, uint(3), booking.RequestID)
	assert.Equal(t, uint(7), booking.UserID)
	assert.Equal(t, models.BookingStatusUpcoming, booking.Status)
	require.NotNil(t, booking.CreatedBy)
	assert.Equal(t, uint(42), *booking.CreatedBy)
	assert.Equal(t, "table by the window", booking.Notes)

	assert.Equal(t, 1, notifier.bookingConfirms)
	assert.Equal(t, 1, notifier.requestUpdates)
	store.AssertExpectations(t)
	store.AssertNumberOfCalls(t, "SaveBooking", 1)
}

func TestConfirmConversation_FromAssigned(t *testing.T) {
	store := new(MockStorage)
	svc := newBookingService(store, &spyNotifier{})

	expectConversationAndRequest(store, models.RequestStatusAssigned, nil)
	store.On("UpdateRequest", mock.MatchedBy(func(r *models.Request) bool {
		return r.Status == models.RequestStatusInProgress
	})).Return(nil).Once()
	store.On("SaveBooking", mock.Anything).Return(nil).Once()

	_, err := svc.ConfirmConversation(5, 42, confirmInput())
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestConfirmConversation_AlreadyInProgress(t *testing.T) {
	store := new(MockStorage)
	svc := newBookingService(store, &spyNotifier{})

	expectConversationAndRequest(store, models.RequestStatusInProgress, nil)
	store.On("UpdateRequest", mock.MatchedBy(func(r *models.Request) bool {
		return r.Status == models.RequestStatusInProgress
	})).Return(nil).Once()
	store.On("SaveBooking", mock.Anything).Return(nil).Once()

	// Confirming twice-worked conversations is fine; the request stays put.
	_, err := svc.ConfirmConversation(5, 42, confirmInput())
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestConfirmConversation_TerminalRequestFails(t *testing.T) {
	for _, status := range []models.RequestStatus{models.RequestStatusFulfilled, models.RequestStatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			store := new(MockStorage)
			notifier := &spyNotifier{}
			svc := newBookingService(store, notifier)

			expectConversationAndRequest(store, status, nil)

			_, err := svc.ConfirmConversation(5, 42, confirmInput())

			var validationErr *models.ValidationError
			assert.ErrorAs(t, err, &validationErr)
			store.AssertNotCalled(t, "UpdateRequest", mock.Anything)
			store.AssertNotCalled(t, "SaveBooking", mock.Anything)
			assert.Zero(t, notifier.bookingConfirms)
		})
	}
}

func TestConfirmConversation_VendorFallsBackToRequest(t *testing.T) {
	requestVendor := uint(4)

	store := new(MockStorage)
	svc := newBookingService(store, &spyNotifier{})

	expectConversationAndRequest(store, models.RequestStatusInProgress, &requestVendor)
	store.On("UpdateRequest", mock.Anything).Return(nil)
	store.On("SaveBooking", mock.Anything).Return(nil)

	booking, err := svc.ConfirmConversation(5, 42, confirmInput())
	require.NoError(t, err)
	require.NotNil(t, booking.VendorID)
	assert.Equal(t, requestVendor, *booking.VendorID)
}

func TestConfirmConversation_ExplicitVendorWins(t *testing.T) {
	requestVendor := uint(4)
	inputVendor := uint(8)

	store := new(MockStorage)
	svc := newBookingService(store, &spyNotifier{})

	expectConversationAndRequest(store, models.RequestStatusInProgress, &requestVendor)
	store.On("UpdateRequest", mock.Anything).Return(nil)
	store.On("SaveBooking", mock.Anything).Return(nil)

	in := confirmInput()
	in.VendorID = &inputVendor

	booking, err := svc.ConfirmConversation(5, 42, in)
	require.NoError(t, err)
	require.NotNil(t, booking.VendorID)
	assert.Equal(t, inputVendor, *booking.VendorID)
}

func TestConfirmConversation_ConversationNotFound(t *testing.T) {
	store := new(MockStorage)
	svc := newBookingService(store, &spyNotifier{})
	store.On("GetConversationByID", uint(99)).Return(nil, storage.ErrNotFound)

	_, err := svc.ConfirmConversation(99, 42, confirmInput())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateStatus_CompleteThenNoWayBack(t *testing.T) {
	store := new(MockStorage)
	notifier := &spyNotifier{}
	svc := newBookingService(store, notifier)

	stored := &models.Booking{ID: 9, UserID: 7, Status: models.BookingStatusUpcoming, StartAt: time.Now()}
	store.On("GetBookingByID", uint(9)).Return(stored, nil)
	store.On("UpdateBooking", mock.Anything).Return(nil)

	booking, err := svc.UpdateStatus(9, service.UpdateStatusInput{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, booking.Status)

	// completed is terminal: no reset, no second transition.
	_, err = svc.UpdateStatus(9, service.UpdateStatusInput{Status: "upcoming"})
	var stateErr *models.InvalidStateError
	assert.ErrorAs(t, err, &stateErr)

	store.AssertNumberOfCalls(t, "UpdateBooking", 1)
	assert.Zero(t, notifier.bookingCancels)
}

func TestUpdateStatus_CancelNotifies(t *testing.T) {
	store := new(MockStorage)
	notifier := &spyNotifier{}
	svc := newBookingService(store, notifier)

	stored := &models.Booking{ID: 9, UserID: 7, Status: models.BookingStatusUpcoming, StartAt: time.Now()}
	store.On("GetBookingByID", uint(9)).Return(stored, nil)
	store.On("UpdateBooking", mock.Anything).Return(nil)

	booking, err := svc.UpdateStatus(9, service.UpdateStatusInput{Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, booking.Status)
	assert.Equal(t, 1, notifier.bookingCancels)
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	store := new(MockStorage)
	svc := newBookingService(store, &spyNotifier{})

	_, err := svc.UpdateStatus(9, service.UpdateStatusInput{Status: "confirmed"})

	var validationErr *models.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	store.AssertNotCalled(t, "GetBookingByID", mock.Anything)
}

func TestBookingGet_OwnershipEnforced(t *testing.T) {
	store := new(MockStorage)
	svc := newBookingService(store, &spyNotifier{})
	store.On("GetBookingByID", uint(9)).Return(&models.Booking{ID: 9, UserID: 7}, nil)

	_, err := svc.Get(9, 7, false)
	assert.NoError(t, err)

	_, err = svc.Get(9, 8, false)
	assert.ErrorIs(t, err, service.ErrAccessDenied)

	_, err = svc.Get(9, 8, true)
	assert.NoError(t, err)
}
