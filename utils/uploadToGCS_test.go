package utils

import "testing"

func TestExtractObjectKeyFromURL(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"raw object key", "products/logo.png", "products/logo.png"},
		{"gs scheme", "gs://my-bucket/products/logo.png", "products/logo.png"},
		{"googleapis path style", "https://storage.googleapis.com/my-bucket/products/logo.png", "products/logo.png"},
		{"googleapis bucket host", "https://my-bucket.storage.googleapis.com/products/logo.png", "products/logo.png"},
		{"cloud console style", "https://storage.cloud.google.com/my-bucket/products/logo.png", "products/logo.png"},
		{"nested key", "gs://my-bucket/products/thumbnails/logo.png", "products/thumbnails/logo.png"},
		{"traversal rejected", "products/../secrets.txt", ""},
		{"empty", "", ""},
		{"bucket only", "gs://my-bucket", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractObjectKeyFromURL(tc.input)
			if got != tc.want {
				t.Fatalf("ExtractObjectKeyFromURL(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestExtractObjectKeyFromURL_RoundTripsAccessURL(t *testing.T) {
	t.Setenv("GCS_URL", "storage.googleapis.com")
	t.Setenv("GCS_BUCKET", "my-bucket")

	key := "staff/4f2c.jpg"
	url := BuildObjectAccessURL(key)
	if got := ExtractObjectKeyFromURL(url); got != key {
		t.Fatalf("round trip through access URL: got %q, want %q", got, key)
	}
}
