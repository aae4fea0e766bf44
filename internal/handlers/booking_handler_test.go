package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"safar-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingCreate(t *testing.T) {
	r, db := setupRouter(t)

	driverToken, _ := registerDriver(t, r, db, "driver1")
	passengerToken, passengerID := registerPassenger(t, r, db, "passenger1")

	w := doRequest(t, r, http.MethodPost, "/api/rides", driverToken, ridePayload(time.Now().Add(time.Hour)))
	require.Equal(t, http.StatusCreated, w.Code)
	var ride models.RideResponse
	decodeBody(t, w, &ride)

	w = doRequest(t, r, http.MethodPost, "/api/bookings", passengerToken, map[string]interface{}{"rideId": ride.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var booking models.BookingResponse
	decodeBody(t, w, &booking)
	assert.Equal(t, ride.ID, booking.RideID)
	assert.Equal(t, passengerID, booking.PassengerID)
	assert.Equal(t, models.BookingStatusPending, booking.Status)

	// Свою поездку забронировать нельзя
	w = doRequest(t, r, http.MethodPost, "/api/bookings", driverToken, map[string]interface{}{"rideId": ride.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Несуществующая поездка
	w = doRequest(t, r, http.MethodPost, "/api/bookings", passengerToken, map[string]interface{}{"rideId": 9999})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}

func TestBookingStatusTransitions(t *testing.T) {
	r, db := setupRouter(t)

	driverToken, _ := registerDriver(t, r, db, "driver1")
	passengerToken, _ := registerPassenger(t, r, db, "passenger1")

	w := doRequest(t, r, http.MethodPost, "/api/rides", driverToken, ridePayload(time.Now().Add(time.Hour)))
	require.Equal(t, http.StatusCreated, w.Code)
	var ride models.RideResponse
	decodeBody(t, w, &ride)

	w = doRequest(t, r, http.MethodPost, "/api/bookings", passengerToken, map[string]interface{}{"rideId": ride.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	var booking models.BookingResponse
	decodeBody(t, w, &booking)

	statusURL := fmt.Sprintf("/api/bookings/%d/status", booking.ID)

	// Подтвердить может только водитель
	w = doRequest(t, r, http.MethodPut, statusURL, passengerToken, map[string]interface{}{"status": "confirmed"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// pending → rejected не существует в этой модели
	w = doRequest(t, r, http.MethodPut, statusURL, driverToken, map[string]interface{}{"status": "rejected"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_transition")

	// Единственный допустимый переход
	w = doRequest(t, r, http.MethodPut, statusURL, driverToken, map[string]interface{}{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &booking)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)

	// Обратного перехода нет, повторное подтверждение тоже отклоняется
	w = doRequest(t, r, http.MethodPut, statusURL, driverToken, map[string]interface{}{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_transition")

	w = doRequest(t, r, http.MethodPut, statusURL, driverToken, map[string]interface{}{"status": "confirmed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingListForUserAndRide(t *testing.T) {
	r, db := setupRouter(t)

	driverToken, _ := registerDriver(t, r, db, "driver1")
	passengerToken, _ := registerPassenger(t, r, db, "passenger1")

	w := doRequest(t, r, http.MethodPost, "/api/rides", driverToken, ridePayload(time.Now().Add(time.Hour)))
	require.Equal(t, http.StatusCreated, w.Code)
	var ride models.RideResponse
	decodeBody(t, w, &ride)

	w = doRequest(t, r, http.MethodPost, "/api/bookings", passengerToken, map[string]interface{}{"rideId": ride.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	// Список бронирований пассажира с данными поездки
	w = doRequest(t, r, http.MethodGet, "/api/bookings", passengerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var mine []models.BookingResponse
	decodeBody(t, w, &mine)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].RideInfo)
	assert.Equal(t, "Tashkent", mine[0].RideInfo.Origin)

	// Список бронирований поездки доступен только водителю
	bookingsURL := fmt.Sprintf("/api/rides/%d/bookings", ride.ID)
	w = doRequest(t, r, http.MethodGet, bookingsURL, passengerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodGet, bookingsURL, driverToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var byRide []models.BookingResponse
	decodeBody(t, w, &byRide)
	require.Len(t, byRide, 1)
	assert.Equal(t, "passenger1", byRide[0].PassengerUsername)
}
