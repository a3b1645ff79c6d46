package controllers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func contextWithQuery(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/admin/orders?"+query, nil)
	return c
}

func TestParseDateRange(t *testing.T) {
	from, to, err := parseDateRange(contextWithQuery("startDate=2024-03-01&endDate=2024-03-31"))
	if err != nil {
		t.Fatal(err)
	}
	if !from.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("from %v", from)
	}
	if want := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond); !to.Equal(want) {
		t.Fatalf("to %v, want end of day %v", to, want)
	}

	from, to, err = parseDateRange(contextWithQuery("endDate=2024-03-31T10:00:00Z"))
	if err != nil || from != nil || to.Hour() != 10 {
		t.Fatalf("rfc3339 end only: %v %v %v", from, to, err)
	}

	if _, _, err := parseDateRange(contextWithQuery("startDate=31/03/2024")); err == nil {
		t.Fatalf("expected invalid date")
	}
	from, to, err = parseDateRange(contextWithQuery(""))
	if err != nil || from != nil || to != nil {
		t.Fatalf("no range: %v %v %v", from, to, err)
	}
}
