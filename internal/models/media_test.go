package models

import "testing"

// TestMediaKindChecks verifies image and video detection by content type.
func TestMediaKindChecks(t *testing.T) {
	tests := []struct {
		contentType string
		image       bool
		video       bool
	}{
		{contentType: "image/jpeg", image: true},
		{contentType: "image/svg+xml", image: true},
		{contentType: "video/mp4", video: true},
		{contentType: "video/webm", video: true},
		{contentType: "application/pdf"},
		{contentType: "audio/mpeg"},
		{contentType: ""},
		{contentType: "IMAGE/PNG"},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			m := &Media{ContentType: tt.contentType}
			if got := m.IsImage(); got != tt.image {
				t.Errorf("IsImage() = %v, want %v", got, tt.image)
			}
			if got := m.IsVideo(); got != tt.video {
				t.Errorf("IsVideo() = %v, want %v", got, tt.video)
			}
		})
	}
}

func TestMediaAlt(t *testing.T) {
	alt := "A red bicycle"
	empty := ""
	tests := []struct {
		name string
		m    Media
		want string
	}{
		{name: "alt text set", m: Media{AltText: &alt, OriginalName: "bike.jpg"}, want: alt},
		{name: "alt text empty", m: Media{AltText: &empty, OriginalName: "bike.jpg"}, want: "bike.jpg"},
		{name: "alt text nil", m: Media{OriginalName: "bike.jpg"}, want: "bike.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Alt(); got != tt.want {
				t.Errorf("Alt() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestMediaHumanSize verifies the human-readable file size formatting
// across byte, kilobyte, and megabyte ranges.
func TestMediaHumanSize(t *testing.T) {
	tests := []struct {
		sizeBytes int64
		want      string
	}{
		{sizeBytes: 0, want: "0 B"},
		{sizeBytes: 1023, want: "1023 B"},
		{sizeBytes: 1024, want: "1 KB"},
		{sizeBytes: 1536, want: "2 KB"},
		{sizeBytes: 1048575, want: "1024 KB"},
		{sizeBytes: 1048576, want: "1.0 MB"},
		{sizeBytes: 2411724, want: "2.3 MB"},
	}

	for _, tt := range tests {
		m := &Media{SizeBytes: tt.sizeBytes}
		if got := m.HumanSize(); got != tt.want {
			t.Errorf("Media{SizeBytes: %d}.HumanSize() = %q, want %q", tt.sizeBytes, got, tt.want)
		}
	}
}

func TestFindVariant(t *testing.T) {
	variants := []MediaVariant{{Name: VariantThumb, Width: 150}, {Name: VariantMedium, Width: 1024}}
	v, ok := FindVariant(variants, VariantMedium)
	if !ok || v.Width != 1024 {
		t.Errorf("FindVariant(md) = %+v, %v", v, ok)
	}
	if _, ok := FindVariant(variants, VariantLarge); ok {
		t.Error("FindVariant(lg) should miss")
	}
}
