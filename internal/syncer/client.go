// Package syncer transfers the entire domain state to and from a remote HTTP
// endpoint as one JSON document. Push replaces the remote wholesale, pull
// replaces local collections wholesale; there is no diffing anywhere in the
// protocol.
package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/noah-isme/absensi-sd-api/internal/models"
)

const (
	actionWrite = "write"
	actionRead  = "read"
)

// Client speaks the full-snapshot protocol. It holds no state of its own.
type Client struct {
	http   *http.Client
	logger *zap.Logger
}

// New builds a sync client. A nil httpClient uses http.DefaultClient, which
// deliberately carries no timeout: a hung request stays in flight until the
// transport gives up.
func New(httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{http: httpClient, logger: logger}
}

type writePayload struct {
	Students      []models.Student          `json:"Students"`
	Teachers      []models.Teacher          `json:"Teachers"`
	Attendance    []models.AttendanceRecord `json:"Attendance"`
	Alumni        []models.Alumni           `json:"Alumni"`
	Holidays      []models.Holiday          `json:"Holidays"`
	AcademicYears []models.AcademicYear     `json:"AcademicYears"`
	Headmaster    []models.Headmaster       `json:"Headmaster"`
}

type writeRequest struct {
	Action string       `json:"action"`
	Data   writePayload `json:"data"`
}

type readRequest struct {
	Action string `json:"action"`
}

func emptySlice[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

// Push sends the full state and instructs the remote to replace its entire
// contents. The confirmation payload is not read; success means the request
// did not error.
func (c *Client) Push(ctx context.Context, endpoint string, snap models.Snapshot) error {
	if endpoint == "" {
		return fmt.Errorf("push: no remote endpoint configured")
	}
	body := writeRequest{
		Action: actionWrite,
		Data: writePayload{
			Students:      emptySlice(snap.Students),
			Teachers:      emptySlice(snap.Teachers),
			Attendance:    emptySlice(snap.Attendance),
			Alumni:        emptySlice(snap.Alumni),
			Holidays:      emptySlice(snap.Holidays),
			AcademicYears: emptySlice(snap.AcademicYears),
			Headmaster:    []models.Headmaster{snap.Headmaster},
		},
	}
	resp, err := c.post(ctx, endpoint, body)
	if err != nil {
		return fmt.Errorf("push: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	// Fire-and-forget: drain without inspecting the remote's {status,message}.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Pull requests the remote's full contents and decodes them with per-field
// coercion. The caller applies the result to local state.
func (c *Client) Pull(ctx context.Context, endpoint string) (*RemoteData, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("pull: no remote endpoint configured")
	}
	resp, err := c.post(ctx, endpoint, readRequest{Action: actionRead})
	if err != nil {
		return nil, fmt.Errorf("pull: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("pull: remote returned %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("pull: read body: %w", err)
	}
	remote, err := decodeRemote(data)
	if err != nil {
		return nil, fmt.Errorf("pull: %w", err)
	}
	return remote, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body interface{}) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	// The Apps Script style remote parses the raw post body; text/plain keeps
	// it from preflighting or rejecting the request.
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")
	return c.http.Do(req)
}
