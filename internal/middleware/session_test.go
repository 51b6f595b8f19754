package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"quizmaster/internal/auth"
	"quizmaster/internal/dto"
)

type stubAuthService struct {
	sessions map[string]auth.Identity
}

func (s *stubAuthService) Register(dto.RegisterRequest) (*dto.UserResponse, error) {
	panic("not used")
}

func (s *stubAuthService) Login(dto.LoginRequest) (string, *dto.LoginResponse, error) {
	panic("not used")
}

func (s *stubAuthService) Logout(string) error { return nil }

func (s *stubAuthService) Resolve(token string) (*auth.Identity, error) {
	identity, ok := s.sessions[token]
	if !ok {
		return nil, nil
	}
	return &identity, nil
}

func newTestRouter(authSvc *stubAuthService, cap auth.Capability) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", Session(authSvc), RequireCapability(cap))
	group.GET("/protected", func(c *gin.Context) {
		identity, _ := auth.IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"username": identity.Username})
	})
	return r
}

func TestSessionRedirectsWithoutCookie(t *testing.T) {
	r := newTestRouter(&stubAuthService{}, auth.CapTakeQuiz)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Errorf("expected 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/user" {
		t.Errorf("expected redirect to /user, got %q", loc)
	}
}

func TestSessionRedirectsOnUnknownToken(t *testing.T) {
	r := newTestRouter(&stubAuthService{}, auth.CapTakeQuiz)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "bogus"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Errorf("expected 303, got %d", w.Code)
	}
}

func TestSessionAttachesIdentity(t *testing.T) {
	svc := &stubAuthService{sessions: map[string]auth.Identity{
		"tok-1": {UserID: 7, Username: "alice", Role: auth.RoleStudent},
	}}
	r := newTestRouter(svc, auth.CapTakeQuiz)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok-1"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := w.Body.String(); body != `{"username":"alice"}` {
		t.Errorf("unexpected body %s", body)
	}
}

func TestRequireCapabilityBlocksWrongRole(t *testing.T) {
	svc := &stubAuthService{sessions: map[string]auth.Identity{
		"tok-admin": {UserID: 1, Username: "root", Role: auth.RoleAdmin},
	}}
	// Admins cannot sit quizzes.
	r := newTestRouter(svc, auth.CapTakeQuiz)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok-admin"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Errorf("expected 303 for missing capability, got %d", w.Code)
	}
}
