package browser

import "testing"

func TestDenylistBlocks(t *testing.T) {
	dl, err := newDenylist(blockedDomainPatterns)
	if err != nil {
		t.Fatalf("newDenylist: %v", err)
	}

	tests := []struct {
		name         string
		resourceType string
		url          string
		want         bool
	}{
		{
			name:         "font resource blocked regardless of host",
			resourceType: "font",
			url:          "https://www.encuentra24.com/assets/main.woff2",
			want:         true,
		},
		{
			name:         "analytics domain blocked",
			resourceType: "script",
			url:          "https://pixel.quantcount.com/collect",
			want:         true,
		},
		{
			name:         "tag manager blocked",
			resourceType: "script",
			url:          "https://www.googletagmanager.com/gtm.js?id=GTM-XYZ",
			want:         true,
		},
		{
			name:         "consent vendor blocked",
			resourceType: "document",
			url:          "https://consent.cookiebot.com/uc.js",
			want:         true,
		},
		{
			name:         "target site document passes",
			resourceType: "document",
			url:          "https://www.encuentra24.com/",
			want:         false,
		},
		{
			name:         "image upload host passes",
			resourceType: "xhr",
			url:          "https://api.cloudinary.com/v1_1/upload",
			want:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dl.Blocks(tt.resourceType, tt.url); got != tt.want {
				t.Errorf("Blocks(%q, %q) = %v, want %v", tt.resourceType, tt.url, got, tt.want)
			}
		})
	}
}

func TestNewDenylistRejectsBadPattern(t *testing.T) {
	if _, err := newDenylist([]string{"[unterminated"}); err == nil {
		t.Error("expected error for malformed pattern")
	}
}
