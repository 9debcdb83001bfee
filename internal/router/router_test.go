package router_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/iliyamo/checkin-api/internal/config"
	"github.com/iliyamo/checkin-api/internal/router"
)

const allowedOrigin = "http://localhost:5173"

func testConfig() config.Config {
	return config.Config{
		App:   config.AppConfig{Env: "test", Port: "8080"},
		CORS:  config.CORSConfig{AllowedOrigins: []string{allowedOrigin}, MaxAge: 600},
		Check: config.CheckConfig{MessageTemplate: config.DefaultMessageTemplate},
		Log:   config.LogConfig{Level: "info", Format: "text"},
		Server: config.ServerConfig{
			BodyLimit: "1K",
		},
	}
}

func newApp(t *testing.T) *echo.Echo {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	e, err := router.New(testConfig(), log, nil)
	if err != nil {
		t.Fatalf("router.New: %v", err)
	}
	return e
}

func do(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func checkRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/check", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestRoot_SameMessageRegardlessOfRequest(t *testing.T) {
	e := newApp(t)

	first := do(e, httptest.NewRequest(http.MethodGet, "/", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/?name=Alice&x=1", nil)
	req.Header.Set("Accept-Language", "ko-KR")
	req.Header.Set("X-Anything", "value")
	second := do(e, req)

	if second.Body.String() != first.Body.String() {
		t.Errorf("root changed with request: %q vs %q", second.Body.String(), first.Body.String())
	}
	if !strings.Contains(first.Body.String(), `"message"`) {
		t.Errorf("unexpected body %q", first.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	rec := do(newApp(t), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}

func TestCheck_Alice(t *testing.T) {
	rec := do(newApp(t), checkRequest(`{"name":"Alice"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{`"status":"ok"`, `[Alice]`, `"client_name_received":"Alice"`} {
		if !strings.Contains(body, want) {
			t.Errorf("body %q lacks %q", body, want)
		}
	}
}

func TestCheck_Idempotent(t *testing.T) {
	e := newApp(t)
	first := do(e, checkRequest(`{"name":"Alice"}`)).Body.Bytes()
	for i := 0; i < 5; i++ {
		got := do(e, checkRequest(`{"name":"Alice"}`)).Body.Bytes()
		if !bytes.Equal(got, first) {
			t.Fatalf("run %d: %q != %q", i, got, first)
		}
	}
}

func TestCheck_InvalidBodiesAreClientErrors(t *testing.T) {
	e := newApp(t)
	for _, body := range []string{`{}`, `{"name":1}`, `{"name":null}`} {
		rec := do(e, checkRequest(body))
		if rec.Code < 400 || rec.Code >= 500 {
			t.Errorf("body %s: expected 4xx, got %d", body, rec.Code)
		}
	}
}

func TestCheck_BodyLimit(t *testing.T) {
	big := `{"name":"` + strings.Repeat("a", 2048) + `"}`
	rec := do(newApp(t), checkRequest(big))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
}

func TestCheck_WrongMethod(t *testing.T) {
	rec := do(newApp(t), httptest.NewRequest(http.MethodGet, "/api/check", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestCORS_AllowedOrigin(t *testing.T) {
	req := checkRequest(`{"name":"Alice"}`)
	req.Header.Set(echo.HeaderOrigin, allowedOrigin)
	rec := do(newApp(t), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != allowedOrigin {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowCredentials); got != "true" {
		t.Errorf("Access-Control-Allow-Credentials = %q", got)
	}
}

func TestCORS_OtherOriginGetsNoHeaders(t *testing.T) {
	req := checkRequest(`{"name":"Alice"}`)
	req.Header.Set(echo.HeaderOrigin, "http://evil.example.com")
	rec := do(newApp(t), req)

	for _, h := range []string{
		echo.HeaderAccessControlAllowOrigin,
		echo.HeaderAccessControlAllowCredentials,
	} {
		if got := rec.Header().Get(h); got != "" {
			t.Errorf("%s should be absent, got %q", h, got)
		}
	}
}

func TestCORS_Preflight(t *testing.T) {
	e := newApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/check", nil)
	req.Header.Set(echo.HeaderOrigin, allowedOrigin)
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPut)
	req.Header.Set(echo.HeaderAccessControlRequestHeaders, "Content-Type, X-Custom-Header")
	rec := do(e, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	h := rec.Header()
	if got := h.Get(echo.HeaderAccessControlAllowOrigin); got != allowedOrigin {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
	methods := h.Get(echo.HeaderAccessControlAllowMethods)
	for _, m := range []string{"GET", "POST", "PUT", "PATCH", "DELETE"} {
		if !strings.Contains(methods, m) {
			t.Errorf("Access-Control-Allow-Methods %q lacks %s", methods, m)
		}
	}
	if got := h.Get(echo.HeaderAccessControlAllowHeaders); got != "Content-Type, X-Custom-Header" {
		t.Errorf("Access-Control-Allow-Headers = %q", got)
	}
	if got := h.Get(echo.HeaderAccessControlAllowCredentials); got != "true" {
		t.Errorf("Access-Control-Allow-Credentials = %q", got)
	}
	if got := h.Get(echo.HeaderAccessControlMaxAge); got != "600" {
		t.Errorf("Access-Control-Max-Age = %q", got)
	}

	// same preflight from a stranger
	req.Header.Set(echo.HeaderOrigin, "http://evil.example.com")
	rec = do(e, req)
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "" {
		t.Errorf("disallowed preflight got Access-Control-Allow-Origin %q", got)
	}
}

func TestRequestID(t *testing.T) {
	rec := do(newApp(t), httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Error("expected an X-Request-Id header")
	}
}

func TestNew_RejectsBadTemplate(t *testing.T) {
	cfg := testConfig()
	cfg.Check.MessageTemplate = "no placeholder here"
	if _, err := router.New(cfg, logrus.New(), nil); err == nil {
		t.Fatal("expected an error for a template without {name}")
	}
}

func TestRecover_PanicIsLogged500(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	e, err := router.New(testConfig(), log, nil)
	if err != nil {
		t.Fatalf("router.New: %v", err)
	}
	e.GET("/boom", func(c echo.Context) error {
		panic("boom")
	})

	rec := do(e, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected a log entry")
	}
	if entry.Level != logrus.ErrorLevel {
		t.Errorf("expected error level, got %s", entry.Level)
	}
	if got := entry.Data["status"]; got != http.StatusInternalServerError {
		t.Errorf("logged status = %v", got)
	}
	if cause, _ := entry.Data[logrus.ErrorKey].(error); cause == nil || !strings.Contains(cause.Error(), "boom") {
		t.Errorf("logged error = %v", entry.Data[logrus.ErrorKey])
	}
}

func TestCheck_TrailingDataRejected(t *testing.T) {
	e := newApp(t)
	for _, body := range []string{`{"name":"Alice"} trailing`, `{"name":"Alice"}{"name":"Bob"}`} {
		rec := do(e, checkRequest(body))
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("body %s: expected 422, got %d: %s", body, rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), `"json_invalid"`) {
			t.Errorf("body %s: unexpected detail %s", body, rec.Body.String())
		}
	}
}

func TestCheck_NoContentType(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/check", strings.NewReader(`{"name":"Alice"}`))
	rec := do(newApp(t), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"client_name_received":"Alice"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}
