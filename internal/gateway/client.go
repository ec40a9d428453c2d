// Package gateway is the request side of the pipeline: it builds multipart
// submissions for each analysis operation, dispatches them to the remote
// service and decodes the typed responses. Failures come back as
// *domain.GatewayError; the gateway never synthesizes user-facing text.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"strings"
	"time"

	"kinovek-client/internal/domain"
	"kinovek-client/pkg/logger"
)

// Fixed multipart field names per the service contract.
const (
	fieldResume         = "resume"
	fieldJobDescription = "jobDescription"
)

// DefaultTimeout is the upper bound on how long a call may wait before it is
// abandoned as a timeout.
const DefaultTimeout = 30 * time.Second

// defaultConvertedFileName is used when the conversion response carries no
// Content-Disposition filename.
const defaultConvertedFileName = "ATS_Friendly_Resume.pdf"

// Client talks to the Kinovek analysis service. Every invocation is a fresh
// request: no caching, no retry. A manual retry re-issues the identical
// call.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// session cookie sent with every request; auth is opaque to this layer
	cookieName  string
	cookieValue string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default 30-second wait bound.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithSessionCookie attaches a session cookie to every request.
func WithSessionCookie(name, value string) Option {
	return func(c *Client) {
		c.cookieName = name
		c.cookieValue = value
	}
}

var _ domain.AnalysisGateway = (*Client)(nil)

// NewClient creates a gateway client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Jar:     jar,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health calls GET /health and returns the opaque JSON payload.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, &domain.GatewayError{Kind: domain.GatewayUnknown, Err: err}
	}
	c.decorate(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.GatewayError{Kind: domain.GatewayUnknown, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyStatus(resp.StatusCode, raw)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &domain.GatewayError{Kind: domain.GatewayUnknown, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode health response: %w", err)}
	}
	return payload, nil
}

// Enhance calls POST /resume/enhance. The job-match screen reuses this
// operation.
func (c *Client) Enhance(ctx context.Context, req domain.AnalysisRequest) (*domain.EnhanceResult, error) {
	raw, _, err := c.postMultipart(ctx, "/resume/enhance", req.Resume, &req.JobDescription)
	if err != nil {
		return nil, err
	}
	var out domain.EnhanceResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &domain.GatewayError{Kind: domain.GatewayUnknown, Err: fmt.Errorf("decode enhance response: %w", err)}
	}
	return &out, nil
}

// ATSScore calls POST /resume/ats-score. The job description is optional and
// sent as an empty field when absent.
func (c *Client) ATSScore(ctx context.Context, req domain.AnalysisRequest) (*domain.ATSScoreResult, error) {
	raw, _, err := c.postMultipart(ctx, "/resume/ats-score", req.Resume, &req.JobDescription)
	if err != nil {
		return nil, err
	}
	var out domain.ATSScoreResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &domain.GatewayError{Kind: domain.GatewayUnknown, Err: fmt.Errorf("decode ats-score response: %w", err)}
	}
	return &out, nil
}

// ATSConvert calls POST /resume/ats-convert and returns the binary document
// stream. No free text accompanies this operation.
func (c *Client) ATSConvert(ctx context.Context, file *domain.CandidateFile) (*domain.ConvertedDocument, error) {
	raw, header, err := c.postMultipart(ctx, "/resume/ats-convert", file, nil)
	if err != nil {
		return nil, err
	}
	return &domain.ConvertedDocument{
		Data:        raw,
		ContentType: header.Get("Content-Type"),
		FileName:    fileNameFromHeader(header),
	}, nil
}

type coverLetterEnvelope struct {
	Success bool                     `json:"success"`
	Data    domain.CoverLetterResult `json:"data"`
}

// CoverLetter calls POST /cover-letter/generate.
func (c *Client) CoverLetter(ctx context.Context, req domain.AnalysisRequest) (*domain.CoverLetterResult, error) {
	raw, _, err := c.postMultipart(ctx, "/cover-letter/generate", req.Resume, &req.JobDescription)
	if err != nil {
		return nil, err
	}
	var envelope coverLetterEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &domain.GatewayError{Kind: domain.GatewayUnknown, Err: fmt.Errorf("decode cover-letter response: %w", err)}
	}
	return &envelope.Data, nil
}

// postMultipart builds the multipart body, dispatches it and returns the raw
// response bytes on any 2xx status. jobDescription == nil means the field is
// omitted entirely, not sent empty.
func (c *Client) postMultipart(ctx context.Context, path string, file *domain.CandidateFile, jobDescription *string) ([]byte, http.Header, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := createFilePart(writer, file)
	if err != nil {
		return nil, nil, &domain.GatewayError{Kind: domain.GatewayUnknown, Err: fmt.Errorf("build multipart body: %w", err)}
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, nil, &domain.GatewayError{Kind: domain.GatewayUnknown, Err: fmt.Errorf("write file part: %w", err)}
	}
	if jobDescription != nil {
		if err := writer.WriteField(fieldJobDescription, *jobDescription); err != nil {
			return nil, nil, &domain.GatewayError{Kind: domain.GatewayUnknown, Err: fmt.Errorf("write job description field: %w", err)}
		}
	}
	if err := writer.Close(); err != nil {
		return nil, nil, &domain.GatewayError{Kind: domain.GatewayUnknown, Err: fmt.Errorf("finalize multipart body: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, nil, &domain.GatewayError{Kind: domain.GatewayUnknown, Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.decorate(req)
	logger.Log.Debug("dispatching request", "path", path, "file_name", file.Name, "file_bytes", file.Size())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		ge := classifyTransport(err)
		logger.Log.Warn("request not answered", "path", path, "kind", ge.Kind.String(), "error", err)
		return nil, nil, ge
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &domain.GatewayError{Kind: domain.GatewayUnknown, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, classifyStatus(resp.StatusCode, raw)
	}
	return raw, resp.Header, nil
}

// createFilePart writes the file part with the MIME type the picker declared
// instead of the generic octet-stream CreateFormFile would use.
func createFilePart(writer *multipart.Writer, file *domain.CandidateFile) (io.Writer, error) {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldResume, file.Name))
	contentType := file.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	return writer.CreatePart(header)
}

func (c *Client) decorate(req *http.Request) {
	if c.cookieName != "" {
		req.AddCookie(&http.Cookie{Name: c.cookieName, Value: c.cookieValue})
	}
}

func fileNameFromHeader(header http.Header) string {
	if cd := header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}
	return defaultConvertedFileName
}
