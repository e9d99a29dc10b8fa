package bgremove

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testPNG(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRemoveBackgroundSuccess(t *testing.T) {
	original := testPNG(t, color.NRGBA{255, 0, 0, 255})
	cutout := testPNG(t, color.NRGBA{255, 0, 0, 0})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("x-api-key"); got != "key-123" {
			t.Errorf("expected api key header, got %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart form: %v", err)
		}
		if got := r.FormValue("format"); got != "png" {
			t.Errorf("expected format=png, got %q", got)
		}
		if got := r.FormValue("bg_color"); got != "transparent" {
			t.Errorf("expected bg_color=transparent, got %q", got)
		}
		file, header, err := r.FormFile("image_file")
		if err != nil {
			t.Fatalf("image_file missing: %v", err)
		}
		defer file.Close()
		if header.Filename != "image.png" {
			t.Errorf("expected filename image.png, got %q", header.Filename)
		}
		sent, _ := io.ReadAll(file)
		if !bytes.Equal(sent, original) {
			t.Error("uploaded image does not match input")
		}

		w.Header().Set("Content-Type", "image/png")
		w.Write(cutout)
	}))
	defer server.Close()

	c := New(server.URL, "key-123", 5*time.Second)
	got, err := c.RemoveBackground(context.Background(), original)
	if err != nil {
		t.Fatalf("RemoveBackground: %v", err)
	}
	if !bytes.Equal(got, cutout) {
		t.Error("expected processed image from the service")
	}
}

func TestRemoveBackgroundFailuresReturnOriginal(t *testing.T) {
	original := testPNG(t, color.NRGBA{0, 0, 255, 255})

	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "rate limited", http.StatusInternalServerError)
			},
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("expected *APIError, got %T: %v", err, err)
				}
				if apiErr.Status != http.StatusInternalServerError || apiErr.Message != "rate limited" {
					t.Errorf("unexpected api error: %+v", apiErr)
				}
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("definitely not a png"))
			},
			check: func(t *testing.T, err error) {
				if err == nil {
					t.Fatal("expected error for malformed body")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			got, err := New(server.URL, "key", 5*time.Second).RemoveBackground(context.Background(), original)
			tt.check(t, err)
			if !bytes.Equal(got, original) {
				t.Error("expected original image on failure")
			}
		})
	}
}

func TestRemoveBackgroundNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	original := testPNG(t, color.White)
	got, err := New(url, "key", time.Second).RemoveBackground(context.Background(), original)
	if err == nil {
		t.Fatal("expected transport error")
	}
	if !bytes.Equal(got, original) {
		t.Error("expected original image on transport error")
	}
}

func TestRemoveBackgroundDisabled(t *testing.T) {
	original := testPNG(t, color.White)
	c := New("", "", time.Second)
	if c.Enabled() {
		t.Fatal("expected client without key to be disabled")
	}

	got, err := c.RemoveBackground(context.Background(), original)
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
	if !bytes.Equal(got, original) {
		t.Error("expected original image when disabled")
	}
}

func TestRemoveBackgroundUnsupportedInput(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	original := []byte("GIF89a...")
	got, err := New(server.URL, "key", time.Second).RemoveBackground(context.Background(), original)
	if err == nil {
		t.Fatal("expected encoding error")
	}
	if called {
		t.Error("expected no request for unsupported input")
	}
	if !bytes.Equal(got, original) {
		t.Error("expected original bytes back")
	}
}

func TestRemoveBackgroundOversizedResponse(t *testing.T) {
	cutout := testPNG(t, color.NRGBA{0, 255, 0, 0})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(cutout)
	}))
	defer server.Close()

	c := New(server.URL, "key", time.Second)
	c.maxResponse = int64(len(cutout) - 1)

	original := testPNG(t, color.White)
	got, err := c.RemoveBackground(context.Background(), original)
	if err == nil {
		t.Fatal("expected error for oversized response")
	}
	if !bytes.Equal(got, original) {
		t.Error("expected original image on oversized response")
	}
}
