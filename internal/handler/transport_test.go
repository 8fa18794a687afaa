package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"transport-editor/internal/customdata"
	"transport-editor/internal/models"
	"transport-editor/internal/repository"
	"transport-editor/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const sender = "0x90f8bf6a479f320ead074411a4b0e7944ea8c9c1"

// MockTransportService is a mock implementation of the TransportService interface
type MockTransportService struct {
	mock.Mock
}

func (m *MockTransportService) Start(ctx context.Context, productID, versionID string) (service.View, error) {
	args := m.Called(ctx, productID, versionID)
	return args.Get(0).(service.View), args.Error(1)
}

func (m *MockTransportService) View(id string) (service.View, error) {
	args := m.Called(id)
	return args.Get(0).(service.View), args.Error(1)
}

func (m *MockTransportService) AppendEntry(id string) (customdata.SlotID, error) {
	args := m.Called(id)
	return args.Get(0).(customdata.SlotID), args.Error(1)
}

func (m *MockTransportService) UpdateValue(id string, slot customdata.SlotID, value string) error {
	args := m.Called(id, slot, value)
	return args.Error(0)
}

func (m *MockTransportService) SelectAddress(ctx context.Context, id, address string) (service.View, error) {
	args := m.Called(ctx, id, address)
	return args.Get(0).(service.View), args.Error(1)
}

func (m *MockTransportService) Submit(ctx context.Context, id, sender string) (*service.Outcome, error) {
	args := m.Called(ctx, id, sender)
	return args.Get(0).(*service.Outcome), args.Error(1)
}

func (m *MockTransportService) Close(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

var testView = service.View{
	SessionID: "s1",
	ProductID: "42",
	VersionID: "latest",
	Entries: []service.EntryView{
		{Slot: "input-0", Key: "Owner", Value: "Alice"},
	},
	State: service.StateIdle,
}

func newRouter(svc TransportService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewTransportHandler(svc).Register(r)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestTransportHandler_Open(t *testing.T) {
	tests := []struct {
		name             string
		path             string
		versionID        string
		mockError        error
		expectedStatus   int
		expectedRedirect string
	}{
		{
			name:           "opened",
			path:           "/products/42/transport",
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "explicit version",
			path:           "/products/42/transport?version=3",
			versionID:      "3",
			expectedStatus: http.StatusCreated,
		},
		{
			name:             "registry failure",
			path:             "/products/42/transport",
			mockError:        &service.LoadError{ProductID: "42", VersionID: "latest", Err: assert.AnError},
			expectedStatus:   http.StatusBadGateway,
			expectedRedirect: "/",
		},
		{
			name:             "unknown product",
			path:             "/products/42/transport",
			mockError:        &service.LoadError{ProductID: "42", VersionID: "latest", Err: repository.ErrProductNotFound},
			expectedStatus:   http.StatusNotFound,
			expectedRedirect: "/",
		},
		{
			name:             "malformed custom data",
			path:             "/products/42/transport",
			mockError:        &service.LoadError{ProductID: "42", VersionID: "latest", Err: customdata.ErrMalformed},
			expectedStatus:   http.StatusBadGateway,
			expectedRedirect: "/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockSvc := new(MockTransportService)
			mockSvc.On("Start", mock.Anything, "42", tt.versionID).Return(testView, tt.mockError)

			// Execute
			w := do(newRouter(mockSvc), http.MethodPost, tt.path, "")

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.mockError != nil {
				assert.Equal(t, tt.expectedRedirect, decodeError(t, w).Redirect)
			} else {
				var view service.View
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
				assert.Equal(t, testView, view)
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestTransportHandler_Get(t *testing.T) {
	mockSvc := new(MockTransportService)
	mockSvc.On("View", "s1").Return(testView, nil)
	mockSvc.On("View", "gone").Return(service.View{}, service.ErrSessionNotFound)
	r := newRouter(mockSvc)

	w := do(r, http.MethodGet, "/sessions/s1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/sessions/gone", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "session not found", decodeError(t, w).Error)
}

func TestTransportHandler_AppendAndClose(t *testing.T) {
	mockSvc := new(MockTransportService)
	mockSvc.On("AppendEntry", "s1").Return(customdata.SlotID("input-4"), nil)
	mockSvc.On("Close", "s1").Return(nil)
	r := newRouter(mockSvc)

	w := do(r, http.MethodPost, "/sessions/s1/entries", "")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"slot":"input-4"}`, w.Body.String())

	w = do(r, http.MethodDelete, "/sessions/s1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestTransportHandler_UpdateEntry(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		value          string
		mockError      error
		expectedStatus int
	}{
		{name: "updated", body: `{"value":"Road"}`, value: "Road", expectedStatus: http.StatusOK},
		{name: "cleared", body: `{"value":""}`, value: "", expectedStatus: http.StatusOK},
		{name: "missing value", body: `{}`, expectedStatus: http.StatusBadRequest},
		{name: "read-only entry", body: `{"value":"Storage"}`, value: "Storage", mockError: service.ErrReadOnly, expectedStatus: http.StatusForbidden},
		{name: "hidden entry", body: `{"value":"blue"}`, value: "blue", mockError: service.ErrNotEditable, expectedStatus: http.StatusForbidden},
		{name: "invalid transport type", body: `{"value":"Bicycle"}`, value: "Bicycle", mockError: fmt.Errorf("%w: %q", service.ErrInvalidTransportType, "Bicycle"), expectedStatus: http.StatusUnprocessableEntity},
		{name: "unknown slot", body: `{"value":"x"}`, value: "x", mockError: service.ErrSlotNotFound, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockSvc := new(MockTransportService)
			if tt.expectedStatus != http.StatusBadRequest {
				mockSvc.On("UpdateValue", "s1", customdata.SlotID("input-2"), tt.value).Return(tt.mockError)
			}
			if tt.mockError == nil {
				mockSvc.On("View", "s1").Return(testView, nil)
			}

			// Execute
			w := do(newRouter(mockSvc), http.MethodPut, "/sessions/s1/entries/input-2", tt.body)

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusBadRequest {
				mockSvc.AssertExpectations(t)
			}
		})
	}
}

func TestTransportHandler_SelectLocation(t *testing.T) {
	lat, lng := 37.422, -122.084
	resolved := testView
	resolved.Location = service.LocationView{Address: "1600 Amphitheatre Pkwy", Latitude: &lat, Longitude: &lng}
	resolved.SubmitEnabled = true

	tests := []struct {
		name           string
		body           string
		mockView       service.View
		mockError      error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "resolved",
			body:           `{"address":"1600 Amphitheatre Pkwy"}`,
			mockView:       resolved,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing address",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "missing required field 'address'",
		},
		{
			name:           "no match",
			body:           `{"address":"1600 Amphitheatre Pkwy"}`,
			mockView:       testView,
			mockError:      service.ErrNoCandidates,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedError:  "address could not be resolved",
		},
		{
			name:           "busy",
			body:           `{"address":"1600 Amphitheatre Pkwy"}`,
			mockView:       service.View{},
			mockError:      service.ErrBusy,
			expectedStatus: http.StatusConflict,
			expectedError:  "another operation is in progress",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockSvc := new(MockTransportService)
			if tt.expectedStatus != http.StatusBadRequest {
				mockSvc.On("SelectAddress", mock.Anything, "s1", "1600 Amphitheatre Pkwy").Return(tt.mockView, tt.mockError)
			}

			// Execute
			w := do(newRouter(mockSvc), http.MethodPost, "/sessions/s1/location", tt.body)

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, body["error"])
			} else {
				assert.Equal(t, true, body["submit_enabled"])
				assert.Equal(t, map[string]interface{}{
					"address":   "1600 Amphitheatre Pkwy",
					"latitude":  37.422,
					"longitude": -122.084,
				}, body["location"])
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestTransportHandler_Submit(t *testing.T) {
	outcome := &service.Outcome{
		Receipt:  &models.Receipt{TxHash: "0xabc", ProductID: "42", Version: 2, Sender: sender},
		Redirect: "/products/42",
	}

	tests := []struct {
		name           string
		body           string
		mockOutcome    *service.Outcome
		mockError      error
		expectedStatus int
	}{
		{
			name:           "saved",
			body:           `{"sender":"` + sender + `"}`,
			mockOutcome:    outcome,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing sender",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed sender",
			body:           `{"sender":"alice"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "location not resolved",
			body:           `{"sender":"` + sender + `"}`,
			mockError:      service.ErrLocationRequired,
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "busy",
			body:           `{"sender":"` + sender + `"}`,
			mockError:      service.ErrBusy,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "registry rejected the write",
			body:           `{"sender":"` + sender + `"}`,
			mockError:      &service.SubmissionError{ProductID: "42", Err: assert.AnError},
			expectedStatus: http.StatusBadGateway,
		},
		{
			name:           "resource budget exceeded",
			body:           `{"sender":"` + sender + `"}`,
			mockError:      &service.SubmissionError{ProductID: "42", Err: repository.ErrResourceBudgetExceeded},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockSvc := new(MockTransportService)
			if tt.expectedStatus != http.StatusBadRequest {
				mockSvc.On("Submit", mock.Anything, "s1", sender).Return(tt.mockOutcome, tt.mockError)
			}

			// Execute
			w := do(newRouter(mockSvc), http.MethodPost, "/sessions/s1/submit", tt.body)

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.mockOutcome != nil {
				var body service.Outcome
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, "/products/42", body.Redirect)
				assert.Equal(t, "0xabc", body.Receipt.TxHash)
			} else {
				assert.NotEmpty(t, decodeError(t, w).Error)
				assert.Empty(t, decodeError(t, w).Redirect)
			}
			mockSvc.AssertExpectations(t)
		})
	}
}
