package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/campaignsite/internal/config"
	"github.com/campaignsite/internal/handler"
	"github.com/campaignsite/internal/router"
	"github.com/campaignsite/internal/service"
	"github.com/gin-gonic/gin"
)

func setupTestServer(t *testing.T) (*gin.Engine, *service.GalleryLibrary) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.AppConfig{
		SessionSecret:     "test-secret",
		GinMode:           gin.TestMode,
		UploadDir:         t.TempDir(),
		UploadURLPath:     "/static/uploads",
		AdminUserName:     "admin",
		AdminPassword:     "campaign-test",
		MaxImageDimension: 400,
	}

	library := service.NewGalleryLibrary(service.NewMemoryStore())
	if err := library.Initialize(); err != nil {
		t.Fatalf("failed to seed galleries: %v", err)
	}

	return router.Setup(cfg, handler.NewAPI(cfg, library)), library
}

func loginAdmin(t *testing.T, r *gin.Engine) []*http.Cookie {
	t.Helper()

	form := strings.NewReader("username=admin&password=campaign-test")
	req := httptest.NewRequest(http.MethodPost, "/admin/login", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login failed with status %d: %s", w.Code, w.Body.String())
	}
	return w.Result().Cookies()
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeItems(t *testing.T, w *httptest.ResponseRecorder) []service.Item {
	t.Helper()

	var payload struct {
		Items []service.Item `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode items: %v (%s)", err, w.Body.String())
	}
	return payload.Items
}

func multipartImageForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for x := 0; x < 32; x++ {
		for y := 0; y < 32; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write field %s: %v", key, err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="photo.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create image part: %v", err)
	}
	if err := jpeg.Encode(part, img, nil); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	return &body, writer.FormDataContentType()
}

func TestAdminAPIRequiresSession(t *testing.T) {
	r, _ := setupTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/admin/api/gallery/hero", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", w.Code)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r, _ := setupTestServer(t)

	form := strings.NewReader("username=admin&password=wrong")
	req := httptest.NewRequest(http.MethodPost, "/admin/login", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestGalleryCRUDFlow(t *testing.T) {
	r, _ := setupTestServer(t)
	cookies := loginAdmin(t, r)

	// The events gallery starts with its seed content.
	w := doJSON(t, r, http.MethodGet, "/admin/api/gallery/events", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("list failed: %d", w.Code)
	}
	before := len(decodeItems(t, w))

	// Create with an uploaded image; it must be embedded as a data URI.
	body, contentType := multipartImageForm(t, map[string]string{
		"title":       "Nueva actividad",
		"description": "Descripción breve",
		"alt":         "foto",
	})
	req := httptest.NewRequest(http.MethodPost, "/admin/api/gallery/events", body)
	req.Header.Set("Content-Type", contentType)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("create failed: %d %s", rec.Code, rec.Body.String())
	}

	var created struct {
		Item service.Item `json:"item"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode created item: %v", err)
	}
	if !strings.HasPrefix(created.Item.ImageURL, "data:image/jpeg;base64,") {
		t.Fatalf("expected embedded image, got %.40s", created.Item.ImageURL)
	}
	if created.Item.Order != before {
		t.Fatalf("expected order %d, got %d", before, created.Item.Order)
	}

	// Toggle featured.
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/admin/api/gallery/events/%d/featured", created.Item.ID), nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("toggle failed: %d", w.Code)
	}

	// Move the new item to the top, one step at a time.
	for i := before; i > 0; i-- {
		w = doJSON(t, r, http.MethodPost, "/admin/api/gallery/events/move", gin.H{"index": i, "direction": "up"}, cookies)
		if w.Code != http.StatusOK {
			t.Fatalf("move failed: %d", w.Code)
		}
	}
	items := decodeItems(t, w)
	if items[0].ID != created.Item.ID {
		t.Fatalf("expected created item first, got %v", items[0])
	}

	// Delete and verify the list shrinks back.
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/admin/api/gallery/events/%d", created.Item.ID), nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("delete failed: %d", w.Code)
	}
	if len(decodeItems(t, w)) != before {
		t.Fatalf("expected %d items after delete", before)
	}
}

func TestCreateValidatesInput(t *testing.T) {
	r, _ := setupTestServer(t)
	cookies := loginAdmin(t, r)

	form := strings.NewReader("description=only+description&image_url=https://example.com/a.jpg")
	req := httptest.NewRequest(http.MethodPost, "/admin/api/gallery/hero", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing title, got %d", w.Code)
	}
}

func TestReorderRejectsUnknownIDs(t *testing.T) {
	r, lib := setupTestServer(t)
	cookies := loginAdmin(t, r)

	current := lib.Items(service.CategoryHero)
	ids := make([]int64, 0, len(current))
	for _, item := range current {
		ids = append(ids, item.ID)
	}

	bad := append([]int64{999999}, ids[1:]...)
	w := doJSON(t, r, http.MethodPut, "/admin/api/gallery/hero/order", gin.H{"ids": bad}, cookies)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown id, got %d", w.Code)
	}
	if lib.Items(service.CategoryHero)[0].ID != current[0].ID {
		t.Fatalf("failed reorder must not change the list")
	}

	// A complete permutation is accepted.
	reversed := make([]int64, len(ids))
	for i, id := range ids {
		reversed[len(ids)-1-i] = id
	}
	w = doJSON(t, r, http.MethodPut, "/admin/api/gallery/hero/order", gin.H{"ids": reversed}, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("reorder failed: %d %s", w.Code, w.Body.String())
	}
	if got := lib.Items(service.CategoryHero)[0].ID; got != ids[len(ids)-1] {
		t.Fatalf("expected reversed order, first id %d", got)
	}
}

func TestUnknownCategoryIs404(t *testing.T) {
	r, _ := setupTestServer(t)
	cookies := loginAdmin(t, r)

	w := doJSON(t, r, http.MethodGet, "/admin/api/gallery/unknown", nil, cookies)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown category, got %d", w.Code)
	}
}

// streamRecorder signals once the handler writes its first body byte, so a
// test can tell when the event stream has produced output.
type streamRecorder struct {
	*httptest.ResponseRecorder
	once  sync.Once
	wrote chan struct{}
}

func newStreamRecorder() *streamRecorder {
	return &streamRecorder{ResponseRecorder: httptest.NewRecorder(), wrote: make(chan struct{})}
}

func (r *streamRecorder) Write(p []byte) (int, error) {
	r.once.Do(func() { close(r.wrote) })
	return r.ResponseRecorder.Write(p)
}

func (r *streamRecorder) WriteString(s string) (int, error) {
	r.once.Do(func() { close(r.wrote) })
	return r.ResponseRecorder.WriteString(s)
}

// CloseNotify satisfies http.CloseNotifier for gin's streaming writer; the
// returned channel never signals, mirroring a client that stays connected.
func (r *streamRecorder) CloseNotify() <-chan bool {
	return make(chan bool)
}

func TestGalleryEventsStreamsChanges(t *testing.T) {
	r, lib := setupTestServer(t)
	cookies := loginAdmin(t, r)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/admin/api/events", nil).WithContext(ctx)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := newStreamRecorder()
	served := make(chan struct{})
	go func() {
		r.ServeHTTP(rec, req)
		close(served)
	}()

	// The handler subscribes on its own goroutine, so keep saving until the
	// stream produces output.
	items := []service.Item{{ID: 7, Title: "Caminata", Description: "d", ImageURL: "u"}}
	deadline := time.After(5 * time.Second)
saving:
	for {
		lib.SaveItems(service.CategoryActivities, items)
		select {
		case <-rec.wrote:
			break saving
		case <-deadline:
			t.Fatal("no event streamed before deadline")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	<-served

	body := rec.Body.String()
	if !strings.Contains(body, "event:gallery") {
		t.Fatalf("expected a gallery event, got %q", body)
	}
	if !strings.Contains(body, `"type":"activities"`) || !strings.Contains(body, `"Caminata"`) {
		t.Fatalf("expected the change payload in the stream, got %q", body)
	}
}

func TestPublicGalleryRendersMarkdown(t *testing.T) {
	r, lib := setupTestServer(t)

	lib.SaveItems(service.CategoryProposedActions, []service.Item{
		{
			ID:          1,
			ImageURL:    "https://example.com/a.jpg",
			Title:       "Plan",
			Description: "Un plan **ambicioso** <script>alert(1)</script>",
			Featured:    true,
		},
		{ID: 2, ImageURL: "https://example.com/b.jpg", Title: "Otro", Description: "d"},
	})

	w := doJSON(t, r, http.MethodGet, "/api/gallery/proposed-actions", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("public gallery failed: %d", w.Code)
	}

	var payload struct {
		Items []struct {
			service.Item
			DescriptionHTML string `json:"descriptionHtml"`
		} `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(payload.Items))
	}
	html := payload.Items[0].DescriptionHTML
	if !strings.Contains(html, "<strong>ambicioso</strong>") {
		t.Fatalf("expected rendered markdown, got %q", html)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("expected sanitized output, got %q", html)
	}

	w = doJSON(t, r, http.MethodGet, "/api/gallery/proposed-actions?featured=true", nil, nil)
	var featured struct {
		Items []service.Item `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &featured); err != nil {
		t.Fatalf("failed to decode featured response: %v", err)
	}
	if len(featured.Items) != 1 || featured.Items[0].ID != 1 {
		t.Fatalf("expected only the featured item, got %v", featured.Items)
	}
}
