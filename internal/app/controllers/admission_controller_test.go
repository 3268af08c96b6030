package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholaris/internal/app/controllers"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/app/routes"
	"github.com/yigit/scholaris/internal/app/services"
	"github.com/yigit/scholaris/internal/middleware"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/auth"
	"github.com/yigit/scholaris/internal/pkg/filestorage"
	"github.com/yigit/scholaris/internal/pkg/websocket"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memAdmissionStore backs the API tests without a database
type memAdmissionStore struct {
	admissions map[int64]*models.Admission
	nextID     int64
}

func newMemAdmissionStore() *memAdmissionStore {
	return &memAdmissionStore{admissions: make(map[int64]*models.Admission), nextID: 1}
}

func (m *memAdmissionStore) Create(ctx context.Context, adm *models.Admission) (int64, error) {
	id := m.nextID
	m.nextID++
	adm.ID = id
	m.admissions[id] = adm
	return id, nil
}

func (m *memAdmissionStore) GetByID(ctx context.Context, id int64) (*models.Admission, error) {
	adm, ok := m.admissions[id]
	if !ok {
		return nil, apperrors.ErrAdmissionNotFound
	}
	copied := *adm
	return &copied, nil
}

func (m *memAdmissionStore) List(ctx context.Context, status *models.AdmissionStatus, page, pageSize int) ([]models.Admission, int64, error) {
	var out []models.Admission
	for _, adm := range m.admissions {
		if status == nil || adm.Status == *status {
			out = append(out, *adm)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memAdmissionStore) CountByStatus(ctx context.Context) (map[models.AdmissionStatus]int64, error) {
	counts := make(map[models.AdmissionStatus]int64)
	for _, adm := range m.admissions {
		counts[adm.Status]++
	}
	return counts, nil
}

func (m *memAdmissionStore) EmailExists(ctx context.Context, email string) (bool, error) {
	for _, adm := range m.admissions {
		if adm.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memAdmissionStore) Approve(ctx context.Context, admissionID, reviewerID int64, remarks string, student *models.Student) (int64, error) {
	adm, ok := m.admissions[admissionID]
	if !ok {
		return 0, apperrors.ErrAdmissionNotFound
	}
	if adm.Status != models.AdmissionPending {
		return 0, apperrors.ErrAdmissionNotPending
	}
	now := time.Now()
	adm.Status = models.AdmissionApproved
	adm.AdmissionNumber = student.AdmissionNumber
	adm.ApprovalDate = &now
	return 7, nil
}

func (m *memAdmissionStore) Reject(ctx context.Context, admissionID, reviewerID int64, reason, remarks string) error {
	adm, ok := m.admissions[admissionID]
	if !ok {
		return apperrors.ErrAdmissionNotFound
	}
	if adm.Status != models.AdmissionPending {
		return apperrors.ErrAdmissionNotPending
	}
	adm.Status = models.AdmissionRejected
	adm.RejectionReason = &reason
	return nil
}

// memStudentStore satisfies both the student directory and the provisioning
// email check
type memStudentStore struct{}

func (m *memStudentStore) EmailExists(ctx context.Context, email string) (bool, error) {
	return false, nil
}

func (m *memStudentStore) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return nil, apperrors.ErrStudentNotFound
}

func (m *memStudentStore) GetByAdmissionNumber(ctx context.Context, admissionNumber string) (*models.Student, error) {
	return nil, apperrors.ErrStudentNotFound
}

func (m *memStudentStore) List(ctx context.Context, search string, page, pageSize int) ([]models.Student, int64, error) {
	return nil, 0, nil
}

type memUserStore struct {
	user *models.User
}

func (m *memUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.user != nil && m.user.Email == email {
		return m.user, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *memUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.user != nil && m.user.ID == id {
		return m.user, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *memUserStore) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return nil
}

type memTokenStore struct {
	tokens map[string]int64
}

func (m *memTokenStore) CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error {
	m.tokens[token] = userID
	return nil
}

func (m *memTokenStore) GetTokenByValue(ctx context.Context, token string) (int64, error) {
	userID, ok := m.tokens[token]
	if !ok {
		return 0, apperrors.ErrTokenNotFound
	}
	return userID, nil
}

func (m *memTokenStore) RevokeToken(ctx context.Context, token string) error {
	delete(m.tokens, token)
	return nil
}

func (m *memTokenStore) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	for token, owner := range m.tokens {
		if owner == userID {
			delete(m.tokens, token)
		}
	}
	return nil
}

type memNoticeStore struct {
	notices map[int64]*models.Notice
	nextID  int64
}

func (m *memNoticeStore) Create(ctx context.Context, notice *models.Notice) (int64, error) {
	id := m.nextID
	m.nextID++
	notice.ID = id
	notice.CreatedAt = time.Now()
	m.notices[id] = notice
	return id, nil
}

func (m *memNoticeStore) GetByID(ctx context.Context, id int64) (*models.Notice, error) {
	notice, ok := m.notices[id]
	if !ok {
		return nil, apperrors.ErrNoticeNotFound
	}
	return notice, nil
}

func (m *memNoticeStore) List(ctx context.Context, page, pageSize int) ([]models.Notice, int64, error) {
	var out []models.Notice
	for _, notice := range m.notices {
		out = append(out, *notice)
	}
	return out, int64(len(out)), nil
}

func (m *memNoticeStore) Delete(ctx context.Context, id int64) error {
	if _, ok := m.notices[id]; !ok {
		return apperrors.ErrNoticeNotFound
	}
	delete(m.notices, id)
	return nil
}

type noopBroadcaster struct{}

func (noopBroadcaster) Broadcast(event *websocket.Event) {}

type noopNotifier struct{}

func (noopNotifier) SendApprovalEmail(toEmail, toName, admissionNumber, tempPassword string) error {
	return nil
}

func (noopNotifier) SendRejectionEmail(toEmail, toName, reason string) error {
	return nil
}

// apiHarness wires the full router over in-memory stores
type apiHarness struct {
	router     *gin.Engine
	admissions *memAdmissionStore
	jwtService *auth.JWTService
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()

	logger := zerolog.Nop()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 720 * time.Hour,
		TokenIssuer:     "scholaris-test",
	})

	hashed, err := auth.HashPassword("Staff123!")
	require.NoError(t, err)
	users := &memUserStore{user: &models.User{
		ID:       1,
		Email:    "staff@school.edu.tr",
		Password: hashed,
		RoleType: models.RoleStaff,
		IsActive: true,
	}}
	tokens := &memTokenStore{tokens: make(map[string]int64)}

	admissions := newMemAdmissionStore()
	students := &memStudentStore{}
	noticeStore := &memNoticeStore{notices: make(map[int64]*models.Notice), nextID: 1}

	admissionService := services.NewAdmissionService(admissions, students, noopNotifier{}, logger)
	authService := services.NewAuthService(users, tokens, jwtService, logger)
	studentService := services.NewStudentService(students, logger)
	noticeService := services.NewNoticeService(noticeStore, noopBroadcaster{}, logger)

	storage, err := filestorage.NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	hub := websocket.NewHub(logger)
	go hub.Run()

	router := gin.New()
	routes.SetupRouter(router,
		controllers.NewAuthController(authService),
		controllers.NewAdmissionController(admissionService, storage),
		controllers.NewStudentController(studentService),
		controllers.NewNoticeController(noticeService),
		websocket.NewHandler(hub, logger),
		middleware.NewAuthMiddleware(jwtService),
	)

	return &apiHarness{router: router, admissions: admissions, jwtService: jwtService}
}

func (h *apiHarness) staffToken(t *testing.T) string {
	t.Helper()

	pair, err := h.jwtService.GenerateTokenPair(&models.User{
		ID:       1,
		Email:    "staff@school.edu.tr",
		RoleType: models.RoleStaff,
	})
	require.NoError(t, err)
	return pair.AccessToken
}

func (h *apiHarness) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	h.router.ServeHTTP(recorder, req)
	return recorder
}

func submitBody() map[string]interface{} {
	return map[string]interface{}{
		"firstName": "Ayşe",
		"lastName":  "Yılmaz",
		"email":     "applicant@example.com",
		"phone":     "+905551112233",
	}
}

func TestAPI_SubmitAndFetchApplication(t *testing.T) {
	h := newAPIHarness(t)

	recorder := h.do(t, http.MethodPost, "/api/v1/admissions/submit", "", submitBody())
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var resp struct {
		Success bool                        `json:"success"`
		Data    dto.SubmitAdmissionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "PENDING", resp.Data.Status)

	recorder = h.do(t, http.MethodGet, fmt.Sprintf("/api/v1/admissions/%d", resp.Data.ID), "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = h.do(t, http.MethodGet, "/api/v1/admissions/999", "", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestAPI_SubmitValidation(t *testing.T) {
	h := newAPIHarness(t)

	// Missing required fields fail binding
	recorder := h.do(t, http.MethodPost, "/api/v1/admissions/submit", "", map[string]interface{}{"email": "nope"})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// Email plus a first name is a complete application
	recorder = h.do(t, http.MethodPost, "/api/v1/admissions/submit", "", map[string]interface{}{
		"email":     "a@x.com",
		"firstName": "A",
	})
	assert.Equal(t, http.StatusCreated, recorder.Code)

	// Duplicate email is a client fault
	require.Equal(t, http.StatusCreated, h.do(t, http.MethodPost, "/api/v1/admissions/submit", "", submitBody()).Code)
	recorder = h.do(t, http.MethodPost, "/api/v1/admissions/submit", "", submitBody())
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAPI_ReviewQueueRequiresAuth(t *testing.T) {
	h := newAPIHarness(t)

	assert.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodGet, "/api/v1/admissions/pending", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodPut, "/api/v1/admissions/approve/1", "", nil).Code)

	token := h.staffToken(t)
	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/api/v1/admissions/pending", token, nil).Code)
	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/api/v1/admissions/stats", token, nil).Code)
}

func TestAPI_ApproveLifecycle(t *testing.T) {
	h := newAPIHarness(t)
	token := h.staffToken(t)

	require.Equal(t, http.StatusCreated, h.do(t, http.MethodPost, "/api/v1/admissions/submit", "", submitBody()).Code)

	recorder := h.do(t, http.MethodPut, "/api/v1/admissions/approve/1", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var resp struct {
		Data dto.ApproveAdmissionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "APPROVED", resp.Data.Status)
	assert.Regexp(t, `^ADM\d{9}$`, resp.Data.AdmissionNumber)
	assert.NotEmpty(t, resp.Data.TempPassword)

	// A decided application cannot be decided again
	assert.Equal(t, http.StatusBadRequest, h.do(t, http.MethodPut, "/api/v1/admissions/approve/1", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, h.do(t, http.MethodPut, "/api/v1/admissions/reject/1", token,
		map[string]interface{}{"rejectionReason": "too late"}).Code)
}

func TestAPI_RejectLifecycle(t *testing.T) {
	h := newAPIHarness(t)
	token := h.staffToken(t)

	require.Equal(t, http.StatusCreated, h.do(t, http.MethodPost, "/api/v1/admissions/submit", "", submitBody()).Code)

	// Reason is mandatory
	recorder := h.do(t, http.MethodPut, "/api/v1/admissions/reject/1", token, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = h.do(t, http.MethodPut, "/api/v1/admissions/reject/1", token,
		map[string]interface{}{"rejectionReason": "Incomplete documentation"})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var resp struct {
		Data models.Admission `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, models.AdmissionRejected, resp.Data.Status)
	require.NotNil(t, resp.Data.RejectionReason)
	assert.Equal(t, "Incomplete documentation", *resp.Data.RejectionReason)
}

func TestAPI_InvalidIDParam(t *testing.T) {
	h := newAPIHarness(t)

	recorder := h.do(t, http.MethodGet, "/api/v1/admissions/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAPI_UploadDocument(t *testing.T) {
	h := newAPIHarness(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "transcript.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("pdf bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admissions/documents", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	recorder := httptest.NewRecorder()
	h.router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var resp struct {
		Data dto.UploadDocumentResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "transcript.pdf", resp.Data.FileName)
	assert.NotEmpty(t, resp.Data.URL)

	// A form without a file is rejected
	recorder = h.do(t, http.MethodPost, "/api/v1/admissions/documents", "", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAPI_LoginAndProfile(t *testing.T) {
	h := newAPIHarness(t)

	recorder := h.do(t, http.MethodPost, "/api/v1/auth/login", "",
		map[string]interface{}{"email": "staff@school.edu.tr", "password": "Staff123!"})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var resp struct {
		Data dto.TokenResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.AccessToken)

	recorder = h.do(t, http.MethodGet, "/api/v1/auth/profile", resp.Data.AccessToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = h.do(t, http.MethodPost, "/api/v1/auth/login", "",
		map[string]interface{}{"email": "staff@school.edu.tr", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAPI_NoticeRemovalIsAdminOnly(t *testing.T) {
	h := newAPIHarness(t)
	token := h.staffToken(t)

	recorder := h.do(t, http.MethodPost, "/api/v1/notices", token,
		map[string]interface{}{"title": "Term registration opens Monday", "body": "Details on the portal."})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	// Staff can publish but not remove
	assert.Equal(t, http.StatusForbidden, h.do(t, http.MethodDelete, "/api/v1/notices/1", token, nil).Code)

	// Notices are publicly readable
	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/api/v1/notices", "", nil).Code)
}

func TestAPI_HealthCheck(t *testing.T) {
	h := newAPIHarness(t)

	recorder := h.do(t, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}
