package files

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/spec-kit/campus-resource-service/internal/config"
)

// pcloudStore talks to a pCloud-compatible REST API over bearer auth.
type pcloudStore struct {
	baseURL string
	token   string
	folder  string
	client  *http.Client
}

// NewPCloudStore builds the production file store client.
func NewPCloudStore(cfg config.FilesConfig) Store {
	return &pcloudStore{
		baseURL: cfg.BaseURL,
		token:   cfg.AccessToken,
		folder:  cfg.Folder,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type uploadResponse struct {
	Result   int    `json:"result"`
	Error    string `json:"error"`
	Metadata []struct {
		FileID int64 `json:"fileid"`
	} `json:"metadata"`
}

type linkResponse struct {
	Result int      `json:"result"`
	Error  string   `json:"error"`
	Hosts  []string `json:"hosts"`
	Path   string   `json:"path"`
}

func (s *pcloudStore) Upload(ctx context.Context, name string, content io.Reader) (*Stored, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/uploadfile?path=%s&filename=%s",
		s.baseURL, url.QueryEscape("/"+s.folder), url.QueryEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if parsed.Result != 0 || len(parsed.Metadata) == 0 {
		return nil, fmt.Errorf("upload rejected: %s", parsed.Error)
	}

	fileID := fmt.Sprintf("%d", parsed.Metadata[0].FileID)
	link, err := s.DownloadLink(ctx, fileID)
	if err != nil {
		return nil, err
	}
	return &Stored{FileID: fileID, URL: link}, nil
}

func (s *pcloudStore) Delete(ctx context.Context, fileID string) error {
	endpoint := fmt.Sprintf("%s/deletefile?fileid=%s", s.baseURL, url.QueryEscape(fileID))
	var parsed struct {
		Result int    `json:"result"`
		Error  string `json:"error"`
	}
	if err := s.getJSON(ctx, endpoint, &parsed); err != nil {
		return err
	}
	if parsed.Result != 0 {
		return fmt.Errorf("delete rejected: %s", parsed.Error)
	}
	return nil
}

func (s *pcloudStore) DownloadLink(ctx context.Context, fileID string) (string, error) {
	endpoint := fmt.Sprintf("%s/getfilelink?fileid=%s", s.baseURL, url.QueryEscape(fileID))
	var parsed linkResponse
	if err := s.getJSON(ctx, endpoint, &parsed); err != nil {
		return "", err
	}
	if parsed.Result != 0 || len(parsed.Hosts) == 0 {
		return "", fmt.Errorf("file link rejected: %s", parsed.Error)
	}
	return "https://" + parsed.Hosts[0] + parsed.Path, nil
}

func (s *pcloudStore) getJSON(ctx context.Context, endpoint string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("file store request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	return json.NewDecoder(resp.Body).Decode(dest)
}
