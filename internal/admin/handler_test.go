package admin

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/globalpath/platform/internal/settings"
	"github.com/globalpath/platform/pkg/models"
)

func setupHandlerTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func parseHandlerResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	return response
}

func newTestHandler(repo *mockRepo) *Handler {
	return NewHandler(NewService(repo, newResolver([]settings.Row{})))
}

func TestHandler_GetDashboard_Success(t *testing.T) {
	repo := new(mockRepo)
	handler := newTestHandler(repo)

	repo.On("GetDashboardStats", mock.Anything).Return(&DashboardStats{
		AppointmentsToday: 2,
		NewInquiries:      7,
	}, nil)

	c, w := setupHandlerTestContext("GET", "/api/v1/admin/dashboard", nil)
	handler.GetDashboard(c)

	assert.Equal(t, http.StatusOK, w.Code)
	response := parseHandlerResponse(w)
	assert.True(t, response["success"].(bool))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(7), data["new_inquiries"])
	repo.AssertExpectations(t)
}

func TestHandler_CreateUser_RequiresAuthContext(t *testing.T) {
	repo := new(mockRepo)
	handler := newTestHandler(repo)

	c, w := setupHandlerTestContext("POST", "/api/v1/admin/users", CreateStaffRequest{
		Email:     "editor@globalpath.example",
		Password:  "swordfish-longenough",
		FirstName: "Nadia",
		LastName:  "Islam",
		Role:      "editor",
	})
	handler.CreateUser(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestHandler_CreateUser_Success(t *testing.T) {
	repo := new(mockRepo)
	handler := newTestHandler(repo)

	adminID := uuid.New()
	repo.On("CreateUser", mock.Anything, mock.Anything).Return(nil)
	repo.On("InsertAuditLog", mock.Anything, adminID, "create_user", "user", mock.Anything, mock.Anything).Return()

	c, w := setupHandlerTestContext("POST", "/api/v1/admin/users", CreateStaffRequest{
		Email:     "editor@globalpath.example",
		Password:  "swordfish-longenough",
		FirstName: "Nadia",
		LastName:  "Islam",
		Role:      "editor",
	})
	c.Set("user_id", adminID)
	handler.CreateUser(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	response := parseHandlerResponse(w)
	assert.True(t, response["success"].(bool))
	repo.AssertExpectations(t)
}

func TestHandler_CreateUser_RejectsUnknownRole(t *testing.T) {
	repo := new(mockRepo)
	handler := newTestHandler(repo)

	c, w := setupHandlerTestContext("POST", "/api/v1/admin/users", map[string]string{
		"email":      "editor@globalpath.example",
		"password":   "swordfish-longenough",
		"first_name": "Nadia",
		"last_name":  "Islam",
		"role":       "superuser",
	})
	c.Set("user_id", uuid.New())
	handler.CreateUser(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestHandler_DeactivateUser_InvalidID(t *testing.T) {
	repo := new(mockRepo)
	handler := newTestHandler(repo)

	c, w := setupHandlerTestContext("POST", "/api/v1/admin/users/not-a-uuid/deactivate", nil)
	c.Set("user_id", uuid.New())
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	handler.DeactivateUser(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_DeactivateUser_SelfRejected(t *testing.T) {
	repo := new(mockRepo)
	handler := newTestHandler(repo)

	adminID := uuid.New()
	c, w := setupHandlerTestContext("POST", "/api/v1/admin/users/"+adminID.String()+"/deactivate", nil)
	c.Set("user_id", adminID)
	c.Params = gin.Params{{Key: "id", Value: adminID.String()}}
	handler.DeactivateUser(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	response := parseHandlerResponse(w)
	assert.False(t, response["success"].(bool))
	repo.AssertNotCalled(t, "UpdateUserStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_ChangeUserRole_Success(t *testing.T) {
	repo := new(mockRepo)
	handler := newTestHandler(repo)

	adminID := uuid.New()
	targetID := uuid.New()
	repo.On("UpdateUserRole", mock.Anything, targetID, models.RoleCounselor).Return(nil)
	repo.On("InsertAuditLog", mock.Anything, adminID, "change_role", "user", targetID, mock.Anything).Return()

	c, w := setupHandlerTestContext("PUT", "/api/v1/admin/users/"+targetID.String()+"/role", map[string]string{"role": "counselor"})
	c.Set("user_id", adminID)
	c.Params = gin.Params{{Key: "id", Value: targetID.String()}}
	handler.ChangeUserRole(c)

	assert.Equal(t, http.StatusOK, w.Code)
	repo.AssertExpectations(t)
}

func TestHandler_ListAuditLogs_InvalidAdminFilter(t *testing.T) {
	repo := new(mockRepo)
	handler := newTestHandler(repo)

	c, w := setupHandlerTestContext("GET", "/api/v1/admin/audit-logs", nil)
	c.Request.URL.RawQuery = "admin_id=nope"
	handler.ListAuditLogs(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "ListAuditLogs", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_ListAuditLogs_PassesFilters(t *testing.T) {
	repo := new(mockRepo)
	handler := newTestHandler(repo)

	repo.On("ListAuditLogs", mock.Anything, mock.Anything, mock.Anything, mock.MatchedBy(func(f *AuditLogFilter) bool {
		return f.Action == "create_user" && f.TargetType == "user"
	})).Return([]*AuditLog{}, int64(0), nil)

	c, w := setupHandlerTestContext("GET", "/api/v1/admin/audit-logs", nil)
	c.Request.URL.RawQuery = "action=create_user&target_type=user"
	handler.ListAuditLogs(c)

	assert.Equal(t, http.StatusOK, w.Code)
	repo.AssertExpectations(t)
}
