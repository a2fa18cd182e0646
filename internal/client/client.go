package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"codejourney-backend/internal/models"
	"codejourney-backend/internal/tracker"
)

// Client talks to the tracker REST API. baseURL includes the /api prefix.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetToken replaces the bearer token sent on every request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func filterQuery(f tracker.Filter) url.Values {
	q := url.Values{}
	if f.Phase != 0 {
		q.Set("phase", strconv.Itoa(f.Phase))
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Priority != "" {
		q.Set("priority", string(f.Priority))
	}
	return q
}

func (c *Client) ListCourses(ctx context.Context, f tracker.Filter) ([]models.Course, error) {
	var courses []models.Course
	err := c.do(ctx, http.MethodGet, "/courses", filterQuery(f), nil, &courses)
	return courses, err
}

func (c *Client) GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	var course models.Course
	if err := c.do(ctx, http.MethodGet, "/courses/"+id.String(), nil, nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) UpdateProgress(ctx context.Context, id uuid.UUID, u tracker.ProgressUpdate, force bool) (*models.Course, error) {
	q := url.Values{}
	q.Set("progress", strconv.Itoa(u.Progress))
	q.Set("status", string(u.Status))
	if force {
		q.Set("force", "true")
	}

	var course models.Course
	if err := c.do(ctx, http.MethodPatch, "/courses/"+id.String()+"/progress", q, nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *Client) ListLogs(ctx context.Context, q models.LogQuery) ([]models.DailyLog, error) {
	v := url.Values{}
	if q.StartDate != "" {
		v.Set("start_date", q.StartDate)
	}
	if q.EndDate != "" {
		v.Set("end_date", q.EndDate)
	}

	var logs []models.DailyLog
	err := c.do(ctx, http.MethodGet, "/logs", v, nil, &logs)
	return logs, err
}

// GetLog returns nil when the date has no log.
func (c *Client) GetLog(ctx context.Context, date string) (*models.DailyLog, error) {
	var l *models.DailyLog
	if err := c.do(ctx, http.MethodGet, "/logs/"+url.PathEscape(date), nil, nil, &l); err != nil {
		return nil, err
	}
	return l, nil
}

func (c *Client) CreateLog(ctx context.Context, req models.CreateDailyLogRequest) (*models.DailyLog, error) {
	var l models.DailyLog
	if err := c.do(ctx, http.MethodPost, "/logs", nil, req, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) DeleteLog(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/logs/"+id.String(), nil, nil, nil)
}

func (c *Client) ListPlanned(ctx context.Context, q models.PlannedQuery) ([]models.PlannedSession, error) {
	v := url.Values{}
	if q.StartDate != "" {
		v.Set("start_date", q.StartDate)
	}
	if q.EndDate != "" {
		v.Set("end_date", q.EndDate)
	}
	if q.CourseID != nil {
		v.Set("course_id", q.CourseID.String())
	}

	var sessions []models.PlannedSession
	err := c.do(ctx, http.MethodGet, "/planned", v, nil, &sessions)
	return sessions, err
}

func (c *Client) CreatePlanned(ctx context.Context, req models.CreatePlannedSessionRequest) (*models.PlannedSession, error) {
	var s models.PlannedSession
	if err := c.do(ctx, http.MethodPost, "/planned", nil, req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) UpdatePlanned(ctx context.Context, id uuid.UUID, req models.UpdatePlannedSessionRequest) (*models.PlannedSession, error) {
	var s models.PlannedSession
	if err := c.do(ctx, http.MethodPut, "/planned/"+id.String(), nil, req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) DeletePlanned(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/planned/"+id.String(), nil, nil, nil)
}

func (c *Client) Summary(ctx context.Context) (*models.AnalyticsSummary, error) {
	var s models.AnalyticsSummary
	if err := c.do(ctx, http.MethodGet, "/analytics/summary", nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Progress(ctx context.Context) ([]models.ProgressPoint, error) {
	var out struct {
		DailyProgress []models.ProgressPoint `json:"daily_progress"`
	}
	err := c.do(ctx, http.MethodGet, "/analytics/progress", nil, nil, &out)
	return out.DailyProgress, err
}

func (c *Client) Heatmap(ctx context.Context) (map[string]models.HeatmapCell, error) {
	var out struct {
		Heatmap map[string]models.HeatmapCell `json:"heatmap"`
	}
	err := c.do(ctx, http.MethodGet, "/analytics/heatmap", nil, nil, &out)
	return out.Heatmap, err
}

// Calendar fetches the server-built grid. month is 1-12.
func (c *Client) Calendar(ctx context.Context, year, month int) (*tracker.MonthGrid, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(year))
	q.Set("month", strconv.Itoa(month))

	var grid tracker.MonthGrid
	if err := c.do(ctx, http.MethodGet, "/calendar", q, nil, &grid); err != nil {
		return nil, err
	}
	return &grid, nil
}

type InitResult struct {
	Message string `json:"message"`
	Courses int    `json:"courses"`
}

func (c *Client) InitDatabase(ctx context.Context, reset bool) (*InitResult, error) {
	q := url.Values{}
	if reset {
		q.Set("reset", "true")
	}

	var out InitResult
	if err := c.do(ctx, http.MethodPost, "/init-database", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges the admin password for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, password string) (*models.AuthToken, error) {
	var tok models.AuthToken
	if err := c.do(ctx, http.MethodPost, "/auth/token", nil, models.TokenRequest{Password: password}, &tok); err != nil {
		return nil, err
	}
	c.SetToken(tok.AccessToken)
	return &tok, nil
}
