package rentlens

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/time/rate"
)

// Bucket names match the backend's storage buckets.
const (
	BucketAvatars       = "avatars"
	BucketProductImages = "product-images"
	BucketPaymentProofs = "payment-proofs"
)

// DefaultStorageTimeout bounds each storage request end to end.
const DefaultStorageTimeout = 30 * time.Second

// BucketClient talks to the backend's object storage API. Uploads carry the
// API key; reads go through PublicURL without authentication. Outbound
// requests are throttled so a burst of image uploads cannot starve the auth
// calls sharing the backend.
type BucketClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	logger  Logger
}

// BucketOption customizes client construction.
type BucketOption func(*BucketClient)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) BucketOption {
	return func(b *BucketClient) {
		if client != nil {
			b.client = client
		}
	}
}

// WithRateLimit overrides the outbound request throttle.
func WithRateLimit(rps float64, burst int) BucketOption {
	return func(b *BucketClient) {
		if rps > 0 && burst > 0 {
			b.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithBucketLogger overrides the default logger.
func WithBucketLogger(logger Logger) BucketOption {
	return func(b *BucketClient) {
		if logger != nil {
			b.logger = logger
		}
	}
}

func NewBucketClient(baseURL, apiKey string, opts ...BucketOption) *BucketClient {
	b := &BucketClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: DefaultStorageTimeout},
		limiter: rate.NewLimiter(rate.Limit(10), 5),
		logger:  defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	return b
}

// Upload stores the object and returns its public URL.
func (b *BucketClient) Upload(ctx context.Context, bucket, objectPath string, contentType string, body []byte) (string, error) {
	if err := validateObjectRef(bucket, objectPath); err != nil {
		return "", err
	}

	if err := b.limiter.Wait(ctx); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryOperation, "upload cancelled while throttled")
	}

	endpoint := b.objectURL(bucket, objectPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build upload request")
	}
	req.Header.Set("Authorization", "Bearer "+b.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	res, err := b.client.Do(req)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryOperation, "storage upload failed")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", storageStatusError("upload", bucket, objectPath, res)
	}

	b.logger.Debug("uploaded %s/%s (%d bytes)", bucket, objectPath, len(body))

	return b.PublicURL(bucket, objectPath), nil
}

// Delete removes the object. Deleting a missing object is not an error.
func (b *BucketClient) Delete(ctx context.Context, bucket, objectPath string) error {
	if err := validateObjectRef(bucket, objectPath); err != nil {
		return err
	}

	if err := b.limiter.Wait(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "delete cancelled while throttled")
	}

	endpoint := b.objectURL(bucket, objectPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build delete request")
	}
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	res, err := b.client.Do(req)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "storage delete failed")
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return storageStatusError("delete", bucket, objectPath, res)
	}

	return nil
}

// PublicURL returns the unauthenticated read URL for an object.
func (b *BucketClient) PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		b.baseURL,
		url.PathEscape(bucket),
		escapeObjectPath(objectPath),
	)
}

func (b *BucketClient) objectURL(bucket, objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s",
		b.baseURL,
		url.PathEscape(bucket),
		escapeObjectPath(objectPath),
	)
}

func escapeObjectPath(objectPath string) string {
	parts := strings.Split(objectPath, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

func validateObjectRef(bucket, objectPath string) error {
	if bucket == "" || objectPath == "" {
		return goerrors.New("bucket and object path are required", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}
	return nil
}

func storageStatusError(op, bucket, objectPath string, res *http.Response) error {
	payload, _ := io.ReadAll(io.LimitReader(res.Body, 1024))

	return goerrors.New(
		fmt.Sprintf("storage %s returned %d", op, res.StatusCode),
		goerrors.CategoryOperation,
	).WithMetadata(map[string]any{
		"bucket":   bucket,
		"path":     objectPath,
		"status":   res.StatusCode,
		"response": string(payload),
	})
}
