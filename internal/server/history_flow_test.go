package server

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func (app *testApp) upload(t *testing.T, token, clientID, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	_ = w.WriteField("clientId", clientID)
	_ = w.WriteField("notes", "blood panel")
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write([]byte(content))
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/history/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func TestHistoryFlow(t *testing.T) {
	app := setupApp(t)
	token := app.staffToken(t)
	clientID := app.createClient(t, token, "Eve", "eve@mail.test")

	rec := app.request(http.MethodGet, "/api/history/"+clientID, "", token)
	expectStatus(t, rec, http.StatusOK)
	if n := len(data(t, rec)["histories"].([]interface{})); n != 0 {
		t.Errorf("expected no records, got %d", n)
	}

	rec = app.request(http.MethodPost, "/api/history",
		fmt.Sprintf(`{"clientId":%q,"fileId":"external-123","fileType":"application/pdf","notes":"referral"}`, clientID), token)
	expectStatus(t, rec, http.StatusCreated)

	rec = app.upload(t, token, clientID, "Labs.PDF", "%PDF-1.7 results")
	expectStatus(t, rec, http.StatusCreated)
	record := data(t, rec)["history"].(map[string]interface{})
	key := record["fileId"].(string)
	if !strings.HasPrefix(key, "history/"+clientID+"/") || !strings.HasSuffix(key, ".pdf") {
		t.Errorf("unexpected object key %q", key)
	}
	obj, ok := app.Store.Get(key)
	if !ok || string(obj.Data) != "%PDF-1.7 results" {
		t.Fatalf("expected uploaded object in store, got %v %q", ok, obj.Data)
	}
	recordID := record["id"].(string)

	rec = app.request(http.MethodGet, "/api/history/record/"+recordID+"/download", "", token)
	expectStatus(t, rec, http.StatusOK)
	url := data(t, rec)["url"].(string)
	if !strings.Contains(url, key) {
		t.Errorf("expected url for %s, got %s", key, url)
	}

	rec = app.request(http.MethodGet, "/api/history?page=1&page_size=1", "", token)
	expectStatus(t, rec, http.StatusOK)
	if total := data(t, rec)["pagination"].(map[string]interface{})["totalItems"]; total != float64(2) {
		t.Errorf("expected 2 records, got %v", total)
	}

	expectStatus(t, app.request(http.MethodDelete, "/api/history/"+recordID, "", token), http.StatusOK)
	if _, ok := app.Store.Get(key); ok {
		t.Error("expected stored object removed with its record")
	}
	rec = app.request(http.MethodGet, "/api/history/record/"+recordID+"/download", "", token)
	expectError(t, rec, http.StatusNotFound, "HISTORY_NOT_FOUND")
}

func TestHistoryUploadUnknownClient(t *testing.T) {
	app := setupApp(t)
	token := app.staffToken(t)

	rec := app.upload(t, token, "0190c8a0-0000-7000-8000-00000000dead", "a.txt", "x")
	expectError(t, rec, http.StatusNotFound, "CLIENT_NOT_FOUND")
}

func TestSettingsFlow(t *testing.T) {
	app := setupApp(t)
	token := app.staffToken(t)

	rec := app.request(http.MethodGet, "/api/settings", "", token)
	expectError(t, rec, http.StatusNotFound, "SETTINGS_NOT_FOUND")

	rec = app.request(http.MethodPost, "/api/settings", `{"operatingHours":[]}`, token)
	expectError(t, rec, http.StatusBadRequest, "INVALID_INPUT")

	full := `{
		"operatingHours":[{"day":"Monday","startTime":"09:00","endTime":"17:00"},{"day":"Sunday","isClosed":true}],
		"appointmentTypes":[{"name":"Consultation","duration":30,"price":50}],
		"reminders":[{"type":"sms","timeBeforeAppointment":2,"message":"Reminder"}]
	}`
	expectStatus(t, app.request(http.MethodPost, "/api/settings", full, token), http.StatusCreated)
	expectError(t, app.request(http.MethodPost, "/api/settings", full, token), http.StatusConflict, "SETTINGS_EXIST")

	rec = app.request(http.MethodPut, "/api/settings", `{"appointmentTypes":[{"name":"Follow-up","duration":15,"price":25}]}`, token)
	expectStatus(t, rec, http.StatusOK)

	rec = app.request(http.MethodGet, "/api/settings", "", token)
	expectStatus(t, rec, http.StatusOK)
	setting := data(t, rec)["setting"].(map[string]interface{})
	if n := len(setting["operatingHours"].([]interface{})); n != 2 {
		t.Errorf("expected operating hours kept, got %d", n)
	}
	types := setting["appointmentTypes"].([]interface{})
	if len(types) != 1 || types[0].(map[string]interface{})["name"] != "Follow-up" {
		t.Errorf("expected appointment types replaced, got %v", types)
	}
}
