package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arunhegde/campusdesk/internal/app/models/dto"
	"github.com/arunhegde/campusdesk/internal/pkg/apperrors"
	"github.com/arunhegde/campusdesk/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"validation", apperrors.NewValidationError("field missing"), 400, dto.ErrorCodeValidationFailed},
		{"bad request", apperrors.NewBadRequestError("status must be Approved or Declined"), 400, dto.ErrorCodeValidationFailed},
		{"bad credentials", apperrors.ErrInvalidCredentials, 401, dto.ErrorCodeInvalidCredentials},
		{"expired token", apperrors.ErrTokenExpired, 401, dto.ErrorCodeExpiredToken},
		{"permission denied", apperrors.ErrPermissionDenied, 403, dto.ErrorCodeForbidden},
		{"enrollment missing", apperrors.ErrEnrollmentNotFound, 404, dto.ErrorCodeResourceNotFound},
		{"book not borrowed", apperrors.ErrBookNotBorrowed, 404, dto.ErrorCodeResourceNotFound},
		{"resource missing", apperrors.NewResourceNotFoundError("student \"GHOST\" not found"), 404, dto.ErrorCodeResourceNotFound},
		{"handle taken", apperrors.ErrHandleExists, 409, dto.ErrorCodeResourceAlreadyExists},
		{"duplicate enrollment", apperrors.NewConflictError("an active enrollment already exists"), 409, dto.ErrorCodeConflict},
		{"unmapped", fmt.Errorf("boom"), 500, dto.ErrorCodeInternalServer},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			HandleAPIError(c, tc.err)

			if w.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, w.Code)
			}
			var resp dto.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}
			if resp.Error == nil || resp.Error.Code != tc.wantCode {
				t.Fatalf("expected code %s, got %+v", tc.wantCode, resp.Error)
			}
		})
	}
}

func TestHandleAPIErrorCarriesCustomDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	err := apperrors.NewConflictError("an active enrollment already exists").
		WithDetails(map[string]interface{}{"student_usn": "S1", "subject_id": "math"})
	HandleAPIError(c, err)

	if w.Code != 409 {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	var resp dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	details, ok := resp.Error.Details.(map[string]interface{})
	if !ok {
		t.Fatalf("expected details map, got %T", resp.Error.Details)
	}
	if details["student_usn"] != "S1" || details["subject_id"] != "math" {
		t.Fatalf("unexpected details: %+v", details)
	}
}

func newAuthRouter(jwtService *auth.JWTService, roles ...string) *gin.Engine {
	m := NewAuthMiddleware(jwtService)
	router := gin.New()
	group := router.Group("", m.JWTAuth())
	if len(roles) > 0 {
		group.Use(m.RoleRequired(roles...))
	}
	group.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"actor": ActorFromContext(c)})
	})
	return router
}

func TestJWTAuthMiddleware(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "campusdesk-test",
	})
	router := newAuthRouter(jwtService)

	token, _, err := jwtService.GenerateToken("S1", "Priya Nair", "student")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer " + token, 200},
		{"missing header", "", 401},
		{"malformed header", "Token " + token, 401},
		{"garbage token", "Bearer garbage", 401},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tc.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestJWTAuthSetsActorContext(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
	})
	router := newAuthRouter(jwtService)

	token, _, err := jwtService.GenerateToken("EMP042", "Anil Kumar", "teacher")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["actor"] != "EMP042" {
		t.Fatalf("expected actor EMP042, got %q", body["actor"])
	}
}

func TestRoleRequired(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
	})
	router := newAuthRouter(jwtService, "librarian", "admin")

	studentToken, _, err := jwtService.GenerateToken("S1", "Priya Nair", "student")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	adminToken, _, err := jwtService.GenerateToken("ADMIN", "Administrator", "admin")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"allowed role", adminToken, 200},
		{"denied role", studentToken, 403},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+tc.token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tc.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(CORS("*"))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard origin header, got %q", got)
	}

	// Preflight requests are answered without reaching a handler. PATCH
	// must be advertised since the transition endpoints use it.
	preflight := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, preflight)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", w.Code)
	}
	methods := w.Header().Get("Access-Control-Allow-Methods")
	for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		if !strings.Contains(methods, m) {
			t.Fatalf("allow-methods %q missing %s", methods, m)
		}
	}
}
