package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"sentrapark/internal/db"
	"sentrapark/internal/repository"
	"sentrapark/internal/service"
)

func TestEntryRejectsMissingFields(t *testing.T) {
	h := NewSessionHandler(nil)

	cases := []struct {
		name string
		body string
	}{
		{"invalid json", "{not json"},
		{"missing plate", `{"facility_id": 1}`},
		{"missing facility", `{"plate": "ABC-0001"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/sessions/entry", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			h.Entry(rec, req)
			assert.Equal(t, 400, rec.Code)
		})
	}
}

func TestExitRejectsMissingPlate(t *testing.T) {
	h := NewSessionHandler(nil)

	req := httptest.NewRequest("POST", "/api/sessions/exit", strings.NewReader(`{"payment_method":"wallet"}`))
	rec := httptest.NewRecorder()
	h.Exit(rec, req)
	assert.Equal(t, 400, rec.Code)
}

func TestResetRequiresFacility(t *testing.T) {
	h := NewSessionHandler(nil)

	req := httptest.NewRequest("POST", "/api/system/reset", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Reset(rec, req)
	assert.Equal(t, 400, rec.Code)
}

type stubSessionRepo struct {
	repository.SessionRepository
	sessions []db.ParkingSession
}

func (s *stubSessionRepo) List(repository.SessionFilter) ([]db.ParkingSession, error) {
	return s.sessions, nil
}

type stubVehicleRepo struct {
	repository.VehicleRepository
	ids []int
}

func (s *stubVehicleRepo) IDsByUser(int) ([]int, error) {
	return s.ids, nil
}

func TestListWrapsSessionsInEnvelope(t *testing.T) {
	sessions := &stubSessionRepo{sessions: []db.ParkingSession{
		{ID: 1, PlateNumber: "ABC-0001", FacilityID: 1, SessionType: db.SessionWalkIn},
	}}
	vehicles := &stubVehicleRepo{ids: []int{1}}
	svc := service.NewSessionService(sessions, nil, vehicles, nil, nil, nil, nil, nil, nil)
	h := NewSessionHandler(svc)

	req := httptest.NewRequest("GET", "/api/sessions", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, 200, rec.Code)
	var body map[string]json.RawMessage
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	var listed []db.ParkingSession
	assert.NoError(t, json.Unmarshal(body["sessions"], &listed))
	assert.Len(t, listed, 1)
	assert.Equal(t, "ABC-0001", listed[0].PlateNumber)
}
