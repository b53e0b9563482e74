package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/chd/chd/internal/platform/apperr"
)

func newContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestFromContext_Defaults(t *testing.T) {
	p, err := FromContext(newContext("/"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, p.Limit)
	}
	if p.Skip != 0 {
		t.Errorf("expected default skip 0, got %d", p.Skip)
	}
}

func TestFromContext_CustomValues(t *testing.T) {
	p, err := FromContext(newContext("/?limit=50&skip=10"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Limit != 50 {
		t.Errorf("expected limit 50, got %d", p.Limit)
	}
	if p.Skip != 10 {
		t.Errorf("expected skip 10, got %d", p.Skip)
	}
}

func TestFromContext_MaxLimitAccepted(t *testing.T) {
	p, err := FromContext(newContext("/?limit=1000"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Limit != MaxLimit {
		t.Errorf("expected limit %d, got %d", MaxLimit, p.Limit)
	}
}

func TestFromContext_Invalid(t *testing.T) {
	for _, target := range []string{
		"/?limit=1001",
		"/?limit=0",
		"/?limit=abc",
		"/?skip=-5",
		"/?skip=1.5",
	} {
		_, err := FromContext(newContext(target))
		if err == nil {
			t.Errorf("%s: expected validation error", target)
			continue
		}
		if !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("%s: expected validation kind, got %v", target, err)
		}
	}
}
