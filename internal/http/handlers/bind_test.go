package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func bindRouter(out func() interface{}) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/bind", func(c *gin.Context) {
		target := out()

		if !BindJSON(c, target) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return r
}

func postRaw(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/bind", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func bindDetails(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}

	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}

	errObj, _ := body["error"].(map[string]interface{})
	details, _ := errObj["details"].(map[string]interface{})
	return details
}

func TestBindJSON_ValidatorErrorsUseJSONNames(t *testing.T) {
	r := bindRouter(func() interface{} { return &registerRequest{} })

	rec := postRaw(t, r, `{"username":"ana","password":"secret1"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	details := bindDetails(t, rec)
	fields, _ := details["fields"].([]interface{})

	if len(fields) != 1 {
		t.Fatalf("fields = %v, want one entry", fields)
	}

	f := fields[0].(map[string]interface{})

	if f["field"] != "email" || f["rule"] != "required" {
		t.Errorf("field error = %v, want email/required", f)
	}
}

func TestBindJSON_TypeMismatchNamesNestedField(t *testing.T) {
	r := bindRouter(func() interface{} { return &updateProfileRequest{} })

	rec := postRaw(t, r, `{"user":{"age":"thirty"}}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	details := bindDetails(t, rec)

	if details["json"] != "invalid_json_type" {
		t.Errorf("json = %v, want invalid_json_type", details["json"])
	}

	if details["field"] != "user.age" {
		t.Errorf("field = %v, want user.age", details["field"])
	}
}

func TestBindJSON_SyntaxError(t *testing.T) {
	r := bindRouter(func() interface{} { return &registerRequest{} })

	rec := postRaw(t, r, `{"username":`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	details := bindDetails(t, rec)

	if details["json"] != "invalid_json_syntax" {
		t.Errorf("json = %v, want invalid_json_syntax", details["json"])
	}
}
