package services

import (
	"context"
	"fmt"
	"math"
	"regexp"

	yt "github.com/kkdai/youtube/v2"
)

var youtubeRegex = regexp.MustCompile(`(?:youtube\.com/(?:watch\?v=|embed/|shorts/)|youtu\.be/)([\w-]{11})`)

// ExtractVideoID returns the 11-character video id in a YouTube URL, or "".
func ExtractVideoID(url string) string {
	if m := youtubeRegex.FindStringSubmatch(url); len(m) > 1 {
		return m[1]
	}
	return ""
}

// ThumbnailURL derives the thumbnail for a course video; unknown URLs get none.
func ThumbnailURL(url string) string {
	id := ExtractVideoID(url)
	if id == "" {
		return ""
	}
	return fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", id)
}

type VideoMetadata struct {
	Title         string
	Author        string
	Description   string
	DurationHours float64
}

type YouTubeService struct {
	ytClient *yt.Client
}

func NewYouTubeService() *YouTubeService {
	return &YouTubeService{ytClient: &yt.Client{}}
}

// GetVideoMetadata looks the video up and reports its duration in hours, rounded to
// two decimals like the seeded catalog.
func (s *YouTubeService) GetVideoMetadata(ctx context.Context, videoURL string) (*VideoMetadata, error) {
	video, err := s.ytClient.GetVideoContext(ctx, videoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch YouTube video metadata: %w", err)
	}

	return &VideoMetadata{
		Title:         video.Title,
		Author:        video.Author,
		Description:   video.Description,
		DurationHours: math.Round(video.Duration.Hours()*100) / 100,
	}, nil
}
