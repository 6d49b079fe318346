package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"kanban_backend/internal/feature/tickets/domain/entity"
	"kanban_backend/internal/feature/tickets/transport/handler"
	"kanban_backend/internal/feature/tickets/usecase"
	userentity "kanban_backend/internal/feature/users/domain/entity"
)

// mockTicketUsecase はTicketUsecaseインターフェースのモック実装です。
type mockTicketUsecase struct {
	ListTicketsFunc  func(ctx context.Context, sortBy, userID string) ([]entity.Ticket, error)
	GetTicketFunc    func(ctx context.Context, id uint) (*entity.Ticket, error)
	CreateTicketFunc func(ctx context.Context, in usecase.TicketInput) (*entity.Ticket, error)
	UpdateTicketFunc func(ctx context.Context, id uint, in usecase.TicketInput) (*entity.Ticket, error)
	DeleteTicketFunc func(ctx context.Context, id uint) error
}

func (m *mockTicketUsecase) ListTickets(ctx context.Context, sortBy, userID string) ([]entity.Ticket, error) {
	return m.ListTicketsFunc(ctx, sortBy, userID)
}

func (m *mockTicketUsecase) GetTicket(ctx context.Context, id uint) (*entity.Ticket, error) {
	return m.GetTicketFunc(ctx, id)
}

func (m *mockTicketUsecase) CreateTicket(ctx context.Context, in usecase.TicketInput) (*entity.Ticket, error) {
	return m.CreateTicketFunc(ctx, in)
}

func (m *mockTicketUsecase) UpdateTicket(ctx context.Context, id uint, in usecase.TicketInput) (*entity.Ticket, error) {
	return m.UpdateTicketFunc(ctx, id, in)
}

func (m *mockTicketUsecase) DeleteTicket(ctx context.Context, id uint) error {
	return m.DeleteTicketFunc(ctx, id)
}

// テスト用の固定時刻
var testTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newRouter(uc handler.TicketUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewTicketHandler(uc)
	r := gin.New()
	r.GET("/api/tickets", h.List)
	r.GET("/api/tickets/:id", h.Get)
	r.POST("/api/tickets", h.Create)
	r.PUT("/api/tickets/:id", h.Update)
	r.DELETE("/api/tickets/:id", h.Delete)
	return r
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func assignedTicket() *entity.Ticket {
	uid := uint(2)
	return &entity.Ticket{
		ID: 1, Name: "Fix login", Description: "Button is broken", Status: entity.StatusInProgress,
		AssignedUserID: &uid,
		AssignedUser:   &userentity.User{ID: 2, Username: "SunnyScribe", Password: "$2a$10$secret"},
		CreatedAt:      testTime, UpdatedAt: testTime,
	}
}

func TestTicketHandler_List(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		listFunc       func(ctx context.Context, sortBy, userID string) ([]entity.Ticket, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: query values forwarded, assignee joined",
			url:  "/api/tickets?sortBy=name&userId=2",
			listFunc: func(ctx context.Context, sortBy, userID string) ([]entity.Ticket, error) {
				assert.Equal(t, "name", sortBy)
				assert.Equal(t, "2", userID)
				return []entity.Ticket{*assignedTicket()}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody: `[{"id":1,"name":"Fix login","description":"Button is broken","status":"In Progress",
				"assignedUserId":2,"assignedUser":{"id":2,"username":"SunnyScribe"},
				"createdAt":"2024-05-01T12:00:00Z","updatedAt":"2024-05-01T12:00:00Z"}]`,
		},
		{
			name: "success: unassigned ticket has null assignee",
			url:  "/api/tickets",
			listFunc: func(ctx context.Context, sortBy, userID string) ([]entity.Ticket, error) {
				return []entity.Ticket{{ID: 3, Name: "n", Description: "d", Status: entity.StatusTodo, CreatedAt: testTime, UpdatedAt: testTime}}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody: `[{"id":3,"name":"n","description":"d","status":"Todo","assignedUserId":null,"assignedUser":null,
				"createdAt":"2024-05-01T12:00:00Z","updatedAt":"2024-05-01T12:00:00Z"}]`,
		},
		{
			name:           "success: empty",
			url:            "/api/tickets",
			listFunc:       func(ctx context.Context, sortBy, userID string) ([]entity.Ticket, error) { return nil, nil },
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name: "error: invalid filter",
			url:  "/api/tickets?userId=bob",
			listFunc: func(ctx context.Context, sortBy, userID string) ([]entity.Ticket, error) {
				return nil, usecase.ErrInvalidFilter
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"message":"Invalid user filter."}`,
		},
		{
			name: "error: store failure is not leaked",
			url:  "/api/tickets",
			listFunc: func(ctx context.Context, sortBy, userID string) ([]entity.Ticket, error) {
				return nil, errors.New("pq: relation does not exist")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"message":"Could not retrieve tickets. Please try again later."}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&mockTicketUsecase{ListTicketsFunc: tt.listFunc})

			w := doRequest(r, http.MethodGet, tt.url, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			assert.NotContains(t, w.Body.String(), "password")
		})
	}
}

func TestTicketHandler_Get(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		getFunc        func(ctx context.Context, id uint) (*entity.Ticket, error)
		expectedStatus int
	}{
		{
			name:           "success",
			path:           "/api/tickets/1",
			getFunc:        func(ctx context.Context, id uint) (*entity.Ticket, error) { return assignedTicket(), nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "not found",
			path:           "/api/tickets/99",
			getFunc:        func(ctx context.Context, id uint) (*entity.Ticket, error) { return nil, usecase.ErrTicketNotFound },
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "malformed id",
			path:           "/api/tickets/1e3",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "store failure",
			path:           "/api/tickets/1",
			getFunc:        func(ctx context.Context, id uint) (*entity.Ticket, error) { return nil, errors.New("boom") },
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&mockTicketUsecase{GetTicketFunc: tt.getFunc})

			w := doRequest(r, http.MethodGet, tt.path, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestTicketHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		createFunc     func(ctx context.Context, in usecase.TicketInput) (*entity.Ticket, error)
		expectedStatus int
	}{
		{
			name: "success: 201",
			body: `{"name":"Fix login","description":"Button is broken","status":"In Progress","assignedUserId":2}`,
			createFunc: func(ctx context.Context, in usecase.TicketInput) (*entity.Ticket, error) {
				assert.Equal(t, "Fix login", in.Name)
				assert.Equal(t, "In Progress", in.Status)
				if assert.NotNil(t, in.AssignedUserID) {
					assert.Equal(t, uint(2), *in.AssignedUserID)
				}
				return assignedTicket(), nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "success: null assignee",
			body: `{"name":"n","description":"d","status":"Todo","assignedUserId":null}`,
			createFunc: func(ctx context.Context, in usecase.TicketInput) (*entity.Ticket, error) {
				assert.Nil(t, in.AssignedUserID)
				return &entity.Ticket{ID: 5, Name: in.Name, Description: in.Description, Status: entity.StatusTodo}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "failure: malformed json",
			body:           `{"name":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "failure: assignedUserId of wrong type",
			body:           `{"name":"n","description":"d","status":"Todo","assignedUserId":"abc"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "failure: validation",
			body: `{"name":"","description":"d","status":"Todo"}`,
			createFunc: func(ctx context.Context, in usecase.TicketInput) (*entity.Ticket, error) {
				return nil, usecase.ErrInvalidTicket
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "failure: store error",
			body: `{"name":"n","description":"d","status":"Todo"}`,
			createFunc: func(ctx context.Context, in usecase.TicketInput) (*entity.Ticket, error) {
				return nil, errors.New("disk full")
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&mockTicketUsecase{CreateTicketFunc: tt.createFunc})

			w := doRequest(r, http.MethodPost, "/api/tickets", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusBadRequest {
				assert.JSONEq(t, `{"message":"Could not create ticket. Please check your input and try again."}`, w.Body.String())
			}
		})
	}
}

func TestTicketHandler_Update(t *testing.T) {
	tests := []struct {
		name           string
		updateFunc     func(ctx context.Context, id uint, in usecase.TicketInput) (*entity.Ticket, error)
		expectedStatus int
	}{
		{
			name: "success: any status change is accepted",
			updateFunc: func(ctx context.Context, id uint, in usecase.TicketInput) (*entity.Ticket, error) {
				assert.Equal(t, uint(1), id)
				return &entity.Ticket{ID: id, Name: in.Name, Description: in.Description, Status: entity.Status(in.Status)}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not found",
			updateFunc: func(ctx context.Context, id uint, in usecase.TicketInput) (*entity.Ticket, error) {
				return nil, usecase.ErrTicketNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "validation failure",
			updateFunc: func(ctx context.Context, id uint, in usecase.TicketInput) (*entity.Ticket, error) {
				return nil, usecase.ErrInvalidTicket
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&mockTicketUsecase{UpdateTicketFunc: tt.updateFunc})

			w := doRequest(r, http.MethodPut, "/api/tickets/1", `{"name":"n","description":"d","status":"Done"}`)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var body map[string]any
				assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, "Done", body["status"])
			}
		})
	}
}

func TestTicketHandler_Delete(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		deleteFunc     func(ctx context.Context, id uint) error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success",
			path:           "/api/tickets/1",
			deleteFunc:     func(ctx context.Context, id uint) error { return nil },
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"Ticket deleted successfully."}`,
		},
		{
			name:           "not found",
			path:           "/api/tickets/404",
			deleteFunc:     func(ctx context.Context, id uint) error { return usecase.ErrTicketNotFound },
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"message":"Ticket not found with the provided ID."}`,
		},
		{
			name:           "malformed id",
			path:           "/api/tickets/-1",
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"message":"Ticket not found with the provided ID."}`,
		},
		{
			name:           "store failure",
			path:           "/api/tickets/1",
			deleteFunc:     func(ctx context.Context, id uint) error { return errors.New("locked") },
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"message":"Could not delete ticket. Please try again later."}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&mockTicketUsecase{DeleteTicketFunc: tt.deleteFunc})

			w := doRequest(r, http.MethodDelete, tt.path, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
