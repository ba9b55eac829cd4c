package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"bookden/internal/models"
)

// Candidate is one external search result as the backend forwards it from
// the book search provider.
type Candidate struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title      string   `json:"title"`
		Authors    []string `json:"authors"`
		ImageLinks struct {
			Thumbnail  string `json:"thumbnail"`
			Medium     string `json:"medium"`
			Large      string `json:"large"`
			ExtraLarge string `json:"extraLarge"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

// CoverURL returns the best available cover image, largest first.
func (c *Candidate) CoverURL() string {
	links := c.VolumeInfo.ImageLinks
	for _, u := range []string{links.ExtraLarge, links.Large, links.Medium, links.Thumbnail} {
		if u != "" {
			return u
		}
	}
	return ""
}

// Draft maps the candidate into a new pending book ready for creation. The
// server assigns the id; authors collapse into one display name.
func (c *Candidate) Draft() *models.Book {
	book := &models.Book{
		Title:  c.VolumeInfo.Title,
		Status: models.StatusPending,
		Genres: []models.Genre{},
	}
	if len(c.VolumeInfo.Authors) > 0 {
		book.Author = &models.Author{Name: strings.Join(c.VolumeInfo.Authors, ", ")}
	}
	if cover := c.CoverURL(); cover != "" {
		book.CoverURL = &cover
	}
	return book
}

// SearchByTitle queries the backend's search proxy. Requests pass through the
// client-side limiter first; the upstream provider is quota-limited.
func (c *HTTPClient) SearchByTitle(ctx context.Context, title string) ([]Candidate, error) {
	if err := c.searchLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	var candidates []Candidate
	path := "/books/search?title=" + url.QueryEscape(title)
	if err := c.do(ctx, http.MethodGet, path, nil, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// Upload posts a file to the backend's asset endpoint and returns the stored
// URL, used to populate cover fields.
func (c *HTTPClient) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("read upload content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files/upload", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errorFromResponse(resp)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
