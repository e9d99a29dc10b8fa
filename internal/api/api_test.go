package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/garderoba/internal/bgremove"
	"github.com/erazemk/garderoba/internal/db"
	"github.com/erazemk/garderoba/internal/labeler"
	"github.com/erazemk/garderoba/internal/model"
	"github.com/erazemk/garderoba/internal/store"
)

const testJWTSecret = "test-secret"

type fakeRemover struct {
	mu  sync.Mutex
	out []byte
	err error
	got []byte
}

func (f *fakeRemover) RemoveBackground(_ context.Context, img []byte) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append([]byte(nil), img...)
	if f.err != nil {
		return img, f.err
	}
	return f.out, nil
}

func (f *fakeRemover) input() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.got
}

type fakeDescriber struct {
	mu          sync.Mutex
	description string
	err         error
}

func (f *fakeDescriber) Describe(context.Context, []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.description, f.err
}

func (f *fakeDescriber) set(description string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.description, f.err = description, err
}

type itemBody struct {
	model.ClothingItem
	Notices []string `json:"notices"`
}

func setupTestServer(t *testing.T, opts Options) (*httptest.Server, string) {
	t.Helper()
	database := db.NewTestDB(t)
	server := httptest.NewServer(NewRouter(database, testJWTSecret, opts))
	t.Cleanup(server.Close)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if _, err := store.CreateUser(context.Background(), database, "admin", string(hash)); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	return server, login(t, server, "admin", "password")
}

func login(t *testing.T, server *httptest.Server, username, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp map[string]string
	json.NewDecoder(resp.Body).Decode(&loginResp)
	if loginResp["token"] == "" {
		t.Fatal("empty token from login")
	}
	return loginResp["token"]
}

func do(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader = http.NoBody
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func doMultipart(t *testing.T, method, url, token string, fields map[string]string, img []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	if img != nil {
		fw, err := mw.CreateFormFile("image", "photo.jpg")
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(img)
	}
	mw.Close()

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: expected %d, got %d: %s", resp.Request.Method, resp.Request.URL.Path, want, resp.StatusCode, body)
	}
}

func solidJPEG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// cutoutPNG is a red square on a transparent background.
func cutoutPNG(t *testing.T, size int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := size / 4; y < size*3/4; y++ {
		for x := size / 4; x < size*3/4; x++ {
			img.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func createCategory(t *testing.T, server *httptest.Server, token, name string) string {
	t.Helper()
	resp := do(t, "POST", server.URL+"/api/categories", token, map[string]string{"name": name})
	expectStatus(t, resp, http.StatusCreated)
	return decode[categoryResponse](t, resp).ID
}

func createItem(t *testing.T, server *httptest.Server, token, categoryID string) string {
	t.Helper()
	resp := doMultipart(t, "POST", server.URL+"/api/items", token, map[string]string{
		"category_id":       categoryID,
		"remove_background": "false",
	}, solidJPEG(t, 40, 60, color.RGBA{B: 200, A: 255}))
	expectStatus(t, resp, http.StatusCreated)
	return decode[itemBody](t, resp).ID
}

func TestLoginEndpoint(t *testing.T) {
	server, _ := setupTestServer(t, Options{})

	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
}

func TestUnauthenticatedAccess(t *testing.T) {
	server, _ := setupTestServer(t, Options{})

	for _, path := range []string{"/api/items", "/api/categories", "/api/outfits"} {
		resp, err := http.Get(server.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("GET %s: expected 401, got %d", path, resp.StatusCode)
		}
	}
}

func TestHealthzIsPublic(t *testing.T) {
	server, _ := setupTestServer(t, Options{})

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	server, token := setupTestServer(t, Options{})

	expectStatus(t, do(t, "POST", server.URL+"/api/auth/logout", token, nil), http.StatusOK)
	expectStatus(t, do(t, "GET", server.URL+"/api/categories", token, nil), http.StatusUnauthorized)
}

func TestChangePassword(t *testing.T) {
	server, token := setupTestServer(t, Options{})

	resp := do(t, "PUT", server.URL+"/api/auth/password", token, map[string]string{
		"current_password": "password",
		"new_password":     "short",
	})
	expectStatus(t, resp, http.StatusBadRequest)

	resp = do(t, "PUT", server.URL+"/api/auth/password", token, map[string]string{
		"current_password": "wrong-password",
		"new_password":     "a-long-new-password",
	})
	expectStatus(t, resp, http.StatusUnauthorized)

	resp = do(t, "PUT", server.URL+"/api/auth/password", token, map[string]string{
		"current_password": "password",
		"new_password":     "a-long-new-password",
	})
	expectStatus(t, resp, http.StatusOK)

	login(t, server, "admin", "a-long-new-password")
}

func TestCategoriesAPIFlow(t *testing.T) {
	server, token := setupTestServer(t, Options{})

	unnamed := createCategory(t, server, token, "")
	shirts := createCategory(t, server, token, "shirts")

	resp := do(t, "GET", server.URL+"/api/categories/"+unnamed, token, nil)
	expectStatus(t, resp, http.StatusOK)
	if got := decode[categoryResponse](t, resp).DisplayName; got != model.UnnamedCategory {
		t.Errorf("expected display name %q, got %q", model.UnnamedCategory, got)
	}

	resp = do(t, "PUT", server.URL+"/api/categories/"+shirts, token, map[string]string{"name": "Shirts"})
	expectStatus(t, resp, http.StatusOK)
	if got := decode[categoryResponse](t, resp).Name; got != "Shirts" {
		t.Errorf("expected renamed category, got %q", got)
	}

	createItem(t, server, token, shirts)

	resp = do(t, "GET", server.URL+"/api/categories?sort=name", token, nil)
	expectStatus(t, resp, http.StatusOK)
	list := decode[[]categoryResponse](t, resp)
	if len(list) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(list))
	}
	if list[0].ID != unnamed || list[1].ID != shirts {
		t.Errorf("unexpected order: %+v", list)
	}
	if list[1].ItemCount != 1 {
		t.Errorf("expected item_count 1, got %d", list[1].ItemCount)
	}

	expectStatus(t, do(t, "GET", server.URL+"/api/categories?sort=bogus", token, nil), http.StatusBadRequest)
	expectStatus(t, do(t, "GET", server.URL+"/api/categories/missing", token, nil), http.StatusNotFound)
}

func TestDeleteCategoryCascades(t *testing.T) {
	server, token := setupTestServer(t, Options{})

	shirts := createCategory(t, server, token, "Shirts")
	shoes := createCategory(t, server, token, "Shoes")
	shirt1 := createItem(t, server, token, shirts)
	shirt2 := createItem(t, server, token, shirts)
	shoe := createItem(t, server, token, shoes)

	resp := do(t, "POST", server.URL+"/api/outfits", token, outfitRequest{
		Name:    "Monday",
		ItemIDs: []string{shirt1, shoe},
	})
	expectStatus(t, resp, http.StatusCreated)
	outfitID := decode[model.Outfit](t, resp).ID

	expectStatus(t, do(t, "DELETE", server.URL+"/api/categories/"+shirts, token, nil), http.StatusOK)

	for _, id := range []string{shirt1, shirt2} {
		expectStatus(t, do(t, "GET", server.URL+"/api/items/"+id, token, nil), http.StatusNotFound)
	}
	expectStatus(t, do(t, "GET", server.URL+"/api/items/"+shoe, token, nil), http.StatusOK)

	resp = do(t, "GET", server.URL+"/api/outfits/"+outfitID, token, nil)
	expectStatus(t, resp, http.StatusOK)
	outfit := decode[model.Outfit](t, resp)
	if len(outfit.ItemIDs) != 1 || outfit.ItemIDs[0] != shoe {
		t.Errorf("expected outfit to keep only %s, got %v", shoe, outfit.ItemIDs)
	}
}

func TestCreateItemBackgroundRemovalFailureKeepsOriginal(t *testing.T) {
	remover := &fakeRemover{err: &bgremove.APIError{Status: http.StatusInternalServerError, Message: "rate limited"}}
	server, token := setupTestServer(t, Options{Remover: remover})
	categoryID := createCategory(t, server, token, "Shirts")

	resp := doMultipart(t, "POST", server.URL+"/api/items", token, map[string]string{
		"category_id": categoryID,
		"description": "Blue shirt",
	}, solidJPEG(t, 80, 120, color.RGBA{B: 255, A: 255}))
	expectStatus(t, resp, http.StatusCreated)

	item := decode[itemBody](t, resp)
	if len(item.Notices) != 1 || !strings.Contains(item.Notices[0], "Failed to remove background") {
		t.Fatalf("expected background removal notice, got %v", item.Notices)
	}
	if !strings.Contains(item.Notices[0], "rate limited") {
		t.Errorf("expected notice to carry upstream message, got %q", item.Notices[0])
	}
	if item.Description != "Blue shirt" {
		t.Errorf("expected description to be kept, got %q", item.Description)
	}

	resp = do(t, "GET", server.URL+"/api/items/"+item.ID+"/image", token, nil)
	expectStatus(t, resp, http.StatusOK)
	stored, _ := io.ReadAll(resp.Body)
	if !bytes.Equal(stored, remover.input()) {
		t.Error("expected stored image to equal the image sent for background removal")
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %q", ct)
	}
}

func TestCreateItemWithCutoutAndDescription(t *testing.T) {
	remover := &fakeRemover{out: cutoutPNG(t, 64)}
	describer := &fakeDescriber{description: "Shirt, Blue, Sleeve"}
	server, token := setupTestServer(t, Options{Remover: remover, Describer: describer})
	categoryID := createCategory(t, server, token, "Shirts")

	resp := doMultipart(t, "POST", server.URL+"/api/items", token, map[string]string{
		"category_id": categoryID,
		"describe":    "true",
	}, solidJPEG(t, 64, 64, color.White))
	expectStatus(t, resp, http.StatusCreated)

	item := decode[itemBody](t, resp)
	if len(item.Notices) != 0 {
		t.Errorf("expected no notices, got %v", item.Notices)
	}
	if item.ImageMime != "image/png" {
		t.Errorf("expected cut-out stored as PNG, got %q", item.ImageMime)
	}
	if item.Description != "Shirt, Blue, Sleeve" {
		t.Errorf("unexpected description %q", item.Description)
	}
}

func TestCreateItemDescriptionFailureAddsNotice(t *testing.T) {
	describer := &fakeDescriber{err: errors.New("quota exceeded")}
	server, token := setupTestServer(t, Options{Describer: describer})
	categoryID := createCategory(t, server, token, "Shirts")

	resp := doMultipart(t, "POST", server.URL+"/api/items", token, map[string]string{
		"category_id":       categoryID,
		"remove_background": "false",
		"describe":          "true",
	}, solidJPEG(t, 32, 32, color.Black))
	expectStatus(t, resp, http.StatusCreated)

	item := decode[itemBody](t, resp)
	if len(item.Notices) != 1 || !strings.HasPrefix(item.Notices[0], "Failed to generate description: ") {
		t.Errorf("expected description notice, got %v", item.Notices)
	}
	if item.Description != "" {
		t.Errorf("expected empty description, got %q", item.Description)
	}
}

func TestCreateItemValidation(t *testing.T) {
	server, token := setupTestServer(t, Options{})
	categoryID := createCategory(t, server, token, "Shirts")
	img := solidJPEG(t, 16, 16, color.White)

	tests := []struct {
		name   string
		fields map[string]string
		img    []byte
	}{
		{"missing category", map[string]string{}, img},
		{"unknown category", map[string]string{"category_id": "missing"}, img},
		{"missing image", map[string]string{"category_id": categoryID}, nil},
		{"not an image", map[string]string{"category_id": categoryID}, []byte("hello")},
		{"bad flag", map[string]string{"category_id": categoryID, "describe": "maybe"}, img},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doMultipart(t, "POST", server.URL+"/api/items", token, tt.fields, tt.img)
			expectStatus(t, resp, http.StatusBadRequest)
		})
	}
}

func TestUpdateItem(t *testing.T) {
	server, token := setupTestServer(t, Options{})
	shirts := createCategory(t, server, token, "Shirts")
	jackets := createCategory(t, server, token, "Jackets")
	id := createItem(t, server, token, shirts)

	resp := do(t, "PUT", server.URL+"/api/items/"+id, token, updateItemRequest{
		CategoryID:  jackets,
		Description: "Actually a jacket",
	})
	expectStatus(t, resp, http.StatusOK)
	item := decode[itemBody](t, resp)
	if item.CategoryID != jackets || item.Description != "Actually a jacket" {
		t.Errorf("unexpected item after update: %+v", item.ClothingItem)
	}

	resp = do(t, "PUT", server.URL+"/api/items/"+id, token, updateItemRequest{CategoryID: "missing"})
	expectStatus(t, resp, http.StatusBadRequest)

	resp = do(t, "GET", server.URL+"/api/items?category_id="+jackets, token, nil)
	expectStatus(t, resp, http.StatusOK)
	if items := decode[[]model.ClothingItem](t, resp); len(items) != 1 {
		t.Errorf("expected 1 item in jackets, got %d", len(items))
	}
}

func TestDescribeEndpoint(t *testing.T) {
	describer := &fakeDescriber{err: errors.New("status 403: API key invalid")}
	server, token := setupTestServer(t, Options{Describer: describer})
	categoryID := createCategory(t, server, token, "Shirts")
	id := createItem(t, server, token, categoryID)

	resp := do(t, "POST", server.URL+"/api/items/"+id+"/describe", token, nil)
	expectStatus(t, resp, http.StatusBadGateway)
	if msg := decode[map[string]string](t, resp)["error"]; !strings.Contains(msg, "Failed to generate description") {
		t.Errorf("unexpected error %q", msg)
	}

	describer.set("Shirt, Collar, Cotton", nil)
	resp = do(t, "POST", server.URL+"/api/items/"+id+"/describe", token, nil)
	expectStatus(t, resp, http.StatusOK)
	if got := decode[itemBody](t, resp).Description; got != "Shirt, Collar, Cotton" {
		t.Errorf("unexpected description %q", got)
	}
}

func TestReplaceImage(t *testing.T) {
	remover := &fakeRemover{out: cutoutPNG(t, 32)}
	server, token := setupTestServer(t, Options{Remover: remover})
	categoryID := createCategory(t, server, token, "Shirts")
	id := createItem(t, server, token, categoryID)

	resp := doMultipart(t, "PUT", server.URL+"/api/items/"+id+"/image", token, nil, solidJPEG(t, 32, 32, color.White))
	expectStatus(t, resp, http.StatusOK)
	if item := decode[itemBody](t, resp); item.ImageMime != "image/png" {
		t.Errorf("expected PNG after replace, got %q", item.ImageMime)
	}

	resp = do(t, "GET", server.URL+"/api/items/"+id+"/image", token, nil)
	expectStatus(t, resp, http.StatusOK)
	data, _ := io.ReadAll(resp.Body)
	if _, err := png.DecodeConfig(bytes.NewReader(data)); err != nil {
		t.Errorf("expected stored PNG: %v", err)
	}
}

func TestOutfitsAPIFlow(t *testing.T) {
	server, token := setupTestServer(t, Options{})
	categoryID := createCategory(t, server, token, "Tops")
	a := createItem(t, server, token, categoryID)
	b := createItem(t, server, token, categoryID)
	c := createItem(t, server, token, categoryID)

	resp := do(t, "POST", server.URL+"/api/outfits", token, outfitRequest{
		Name:    "Weekend",
		ItemIDs: []string{a, b, c, a},
	})
	expectStatus(t, resp, http.StatusCreated)
	outfit := decode[model.Outfit](t, resp)
	if len(outfit.ItemIDs) != 3 {
		t.Fatalf("expected 3 distinct items, got %v", outfit.ItemIDs)
	}

	resp = do(t, "GET", server.URL+"/api/outfits/"+outfit.ID+"/thumbnail", token, nil)
	expectStatus(t, resp, http.StatusOK)
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}
	cfg, err := png.DecodeConfig(resp.Body)
	if err != nil {
		t.Fatalf("decoding thumbnail: %v", err)
	}
	if cfg.Width != 192 || cfg.Height != 240 {
		t.Errorf("expected 192x240 thumbnail, got %dx%d", cfg.Width, cfg.Height)
	}

	resp = do(t, "PUT", server.URL+"/api/outfits/"+outfit.ID, token, outfitRequest{Name: "Empty"})
	expectStatus(t, resp, http.StatusOK)
	if got := decode[model.Outfit](t, resp); got.Name != "Empty" || len(got.ItemIDs) != 0 {
		t.Errorf("unexpected outfit after rewrite: %+v", got)
	}
	expectStatus(t, do(t, "GET", server.URL+"/api/outfits/"+outfit.ID+"/thumbnail", token, nil), http.StatusNotFound)

	resp = do(t, "POST", server.URL+"/api/outfits", token, outfitRequest{ItemIDs: []string{a, "missing"}})
	expectStatus(t, resp, http.StatusBadRequest)

	resp = do(t, "GET", server.URL+"/api/outfits", token, nil)
	expectStatus(t, resp, http.StatusOK)
	if list := decode[[]model.Outfit](t, resp); len(list) != 1 {
		t.Errorf("expected 1 outfit, got %d", len(list))
	}

	expectStatus(t, do(t, "DELETE", server.URL+"/api/outfits/"+outfit.ID, token, nil), http.StatusOK)
	expectStatus(t, do(t, "GET", server.URL+"/api/outfits/"+outfit.ID, token, nil), http.StatusNotFound)
	expectStatus(t, do(t, "GET", server.URL+"/api/items/"+a, token, nil), http.StatusOK)
}

func TestDeleteItemLeavesOutfits(t *testing.T) {
	server, token := setupTestServer(t, Options{})
	categoryID := createCategory(t, server, token, "Tops")
	a := createItem(t, server, token, categoryID)
	b := createItem(t, server, token, categoryID)

	resp := do(t, "POST", server.URL+"/api/outfits", token, outfitRequest{ItemIDs: []string{a, b}})
	expectStatus(t, resp, http.StatusCreated)
	outfitID := decode[model.Outfit](t, resp).ID

	expectStatus(t, do(t, "DELETE", server.URL+"/api/items/"+a, token, nil), http.StatusOK)

	resp = do(t, "GET", server.URL+"/api/outfits/"+outfitID, token, nil)
	expectStatus(t, resp, http.StatusOK)
	if ids := decode[model.Outfit](t, resp).ItemIDs; len(ids) != 1 || ids[0] != b {
		t.Errorf("expected only %s left, got %v", b, ids)
	}
}

func TestCreateItemWithoutRemoverSkipsQuietly(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		fields  map[string]string
		notices int
	}{
		{"no remover, default", Options{}, map[string]string{}, 0},
		{"remover without key, default", Options{Remover: bgremove.New("", "", time.Second)}, map[string]string{}, 0},
		{"no remover, explicit request", Options{}, map[string]string{"remove_background": "true"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, token := setupTestServer(t, tt.opts)
			tt.fields["category_id"] = createCategory(t, server, token, "Shirts")

			resp := doMultipart(t, "POST", server.URL+"/api/items", token, tt.fields, solidJPEG(t, 16, 16, color.White))
			expectStatus(t, resp, http.StatusCreated)

			item := decode[itemBody](t, resp)
			if len(item.Notices) != tt.notices {
				t.Fatalf("expected %d notices, got %v", tt.notices, item.Notices)
			}
			if tt.notices > 0 && !strings.Contains(item.Notices[0], "Failed to remove background") {
				t.Errorf("unexpected notice %q", item.Notices[0])
			}
		})
	}
}

func TestDescribeWithoutKeyIsUnavailable(t *testing.T) {
	server, token := setupTestServer(t, Options{Describer: labeler.New("", "", time.Second)})
	categoryID := createCategory(t, server, token, "Shirts")
	id := createItem(t, server, token, categoryID)

	expectStatus(t, do(t, "POST", server.URL+"/api/items/"+id+"/describe", token, nil), http.StatusServiceUnavailable)
}
