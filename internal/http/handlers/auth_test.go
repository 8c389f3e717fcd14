package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Users provisioned by an admin are stored with a NULL phone; login must
// coalesce it rather than fail the scan.
func TestLoginCoalescesNullPhone(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	mock.ExpectQuery(`SELECT id, first_name, last_name, email, COALESCE\(phone,''\), password_hash, role, status`).
		WithArgs("nimal@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "phone", "password_hash", "role", "status"}).
			AddRow(7, "Nimal", "Perera", "nimal@example.com", "", string(hash), "user", "active"))

	r := gin.New()
	h := AuthHandler{DB: db, Secret: []byte("test-secret")}
	r.POST("/api/auth/login", h.Login)

	body := `{"email":"nimal@example.com","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"token"`) {
		t.Fatalf("response missing token: %s", rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
