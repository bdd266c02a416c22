package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestResponseBuilder(t *testing.T) {
	rec := httptest.NewRecorder()
	NewResponse().Status(http.StatusAccepted).Header("X-Test", "1").BodyHTML("<p>ok</p>").Write(rec)

	if rec.Code != http.StatusAccepted || rec.Header().Get("X-Test") != "1" || rec.Body.String() != "<p>ok</p>" {
		t.Fatalf("got %d %v %q", rec.Code, rec.Header(), rec.Body.String())
	}
}

func TestRedirect(t *testing.T) {
	rec := httptest.NewRecorder()
	Redirect("/").Write(rec)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestErrorResponseEscapes(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorResponse(http.StatusUnprocessableEntity, `<script>alert("x")</script>`).Write(rec)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "<script>") {
		t.Fatalf("message not escaped: %s", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}
}

func TestBodyJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	NewResponse().BodyJSON(map[string]string{"status": "ok"}).Write(rec)
	if rec.Body.String() != "{\"status\":\"ok\"}\n" || rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("got %q %q", rec.Body.String(), rec.Header().Get("Content-Type"))
	}

	rec = httptest.NewRecorder()
	NewResponse().BodyJSON(make(chan int)).Write(rec)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unencodable body: status %d", rec.Code)
	}
}
