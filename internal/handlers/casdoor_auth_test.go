package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/utils"
)

type directoryUsers map[string]*models.User

func (d directoryUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := d[id]; ok {
		return u, nil
	}
	return nil, errors.New("not in directory")
}

func (d directoryUsers) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	return nil, nil
}

func newAuthRouter(parse func(string) (*casdoorsdk.Claims, error), users directoryUsers, roles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cam := &CasdoorAuthMiddleware{
		parseToken: parse,
		userRepo:   users,
		logger:     utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}

	router := gin.New()
	router.GET("/me", cam.AuthMiddleware(), cam.RequireRoleMiddleware(roles...), func(c *gin.Context) {
		user, err := GetUserFromContext(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, user)
	})
	return router
}

func TestCasdoorAuthMiddleware(t *testing.T) {
	claimsFor := func(id, userType string) *casdoorsdk.Claims {
		return &casdoorsdk.Claims{User: casdoorsdk.User{Id: id, Type: userType, DisplayName: "From Token"}}
	}
	parse := func(token string) (*casdoorsdk.Claims, error) {
		switch token {
		case "teacher-token":
			return claimsFor("t1", "teacher"), nil
		case "student-token":
			return claimsFor("s1", "student"), nil
		case "known-token":
			return claimsFor("k1", "student"), nil
		case "anonymous-token":
			return claimsFor("", "student"), nil
		}
		return nil, errors.New("bad signature")
	}
	users := directoryUsers{"k1": {ID: "k1", FullName: "Known", Role: models.RoleTeacher}}

	tests := []struct {
		name   string
		header string
		roles  []models.UserRole
		status int
	}{
		{"missing header", "", []models.UserRole{models.RoleStudent}, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", []models.UserRole{models.RoleStudent}, http.StatusUnauthorized},
		{"bad token", "Bearer forged", []models.UserRole{models.RoleStudent}, http.StatusUnauthorized},
		{"token without user id", "Bearer anonymous-token", []models.UserRole{models.RoleStudent}, http.StatusUnauthorized},
		{"role from claims", "Bearer teacher-token", []models.UserRole{models.RoleTeacher}, http.StatusOK},
		{"insufficient role", "Bearer student-token", []models.UserRole{models.RoleTeacher}, http.StatusForbidden},
		{"role from directory", "Bearer known-token", []models.UserRole{models.RoleTeacher}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthRouter(parse, users, tt.roles...)
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
		})
	}
}

func TestCreateUserFromClaims(t *testing.T) {
	claims := &casdoorsdk.Claims{User: casdoorsdk.User{
		Id: "u1", Type: "learner", DisplayName: "Ada", Email: "ada@example.com", IsAdmin: true,
	}}

	user := createUserFromClaims(claims)
	if user.ID != "u1" || user.FullName != "Ada" || user.Email != "ada@example.com" {
		t.Errorf("user = %+v", user)
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("role = %s, want admin", user.Role)
	}
}
