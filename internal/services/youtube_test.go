package services

import "testing"

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://youtu.be/bWACo_pvKxg?si=GnEbpuzMxXTPH04P", "bWACo_pvKxg"},
		{"https://www.youtube.com/watch?v=H3XIJYEPdus&t=30", "H3XIJYEPdus"},
		{"https://www.youtube.com/embed/zeCDuo74uzA", "zeCDuo74uzA"},
		{"https://www.youtube.com/shorts/a_SthPXtV6c", "a_SthPXtV6c"},
		{"https://vimeo.com/12345", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExtractVideoID(tt.url); got != tt.want {
			t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestThumbnailURL(t *testing.T) {
	if got := ThumbnailURL("https://youtu.be/6qL9KbTXtns"); got != "https://img.youtube.com/vi/6qL9KbTXtns/maxresdefault.jpg" {
		t.Fatalf("unexpected thumbnail %q", got)
	}
	if got := ThumbnailURL("not a video"); got != "" {
		t.Fatalf("expected no thumbnail for non-YouTube URL, got %q", got)
	}
}

func TestCatalog(t *testing.T) {
	phases, courses := Catalog()
	if len(phases) != 8 || len(courses) != 17 {
		t.Fatalf("expected 8 phases and 17 courses, got %d/%d", len(phases), len(courses))
	}

	known := map[int]string{}
	for _, p := range phases {
		known[p.Number] = p.Title
	}
	for _, c := range courses {
		if known[c.Phase] == "" || c.PhaseTitle != known[c.Phase] {
			t.Errorf("course %q has phase %d titled %q", c.Title, c.Phase, c.PhaseTitle)
		}
		if c.Thumbnail == "" {
			t.Errorf("course %q has no thumbnail", c.Title)
		}
		if c.Status != "Not Started" || c.Progress != 0 {
			t.Errorf("course %q not seeded as Not Started", c.Title)
		}
	}

	courses[0].Title = "changed"
	_, again := Catalog()
	if again[0].Title == "changed" {
		t.Fatalf("expected Catalog to return fresh copies")
	}
}
