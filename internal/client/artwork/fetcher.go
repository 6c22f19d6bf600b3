package artwork

//go:generate $MOCKGEN -source=fetcher.go -destination=mocks/fetcher_mock.go

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/yt-audio-grabber/internal/logger"
	http_transport "github.com/oshokin/yt-audio-grabber/internal/transport/http"
	"github.com/oshokin/yt-audio-grabber/internal/utils"
)

// MaxImageSize is the largest image accepted as a cover.
const MaxImageSize = 20 * humanize.MiByte

// Image is a loaded cover image.
type Image struct {
	// Data is the raw image content.
	Data []byte
	// MIMEType is the image media type, for example image/jpeg.
	MIMEType string
}

// Fetcher loads cover images.
type Fetcher interface {
	// Fetch loads the image at source, which is either an http(s) URL or a local path.
	Fetch(ctx context.Context, source string) (*Image, error)
}

// FetcherImpl implements Fetcher with an HTTP client and the local filesystem.
type FetcherImpl struct {
	httpClient *http.Client
}

// NewFetcher creates a Fetcher whose requests carry the User-Agent from userAgentProvider.
func NewFetcher(userAgentProvider utils.UserAgentProvider) Fetcher {
	return &FetcherImpl{
		httpClient: &http.Client{
			Transport: http_transport.NewUserAgentInjector(
				http_transport.NewLogTransport(http.DefaultTransport, 0),
				userAgentProvider),
			Timeout: http_transport.DefaultTimeout,
		},
	}
}

// Fetch implements Fetcher.
func (f *FetcherImpl) Fetch(ctx context.Context, source string) (*Image, error) {
	var (
		data        []byte
		contentType string
		err         error
	)

	if isRemote(source) {
		data, contentType, err = f.download(ctx, source)
	} else {
		data, err = readLocal(source)
	}

	if err != nil {
		return nil, err
	}

	mimeType := detectMIMEType(data, contentType)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotAnImage, source, mimeType)
	}

	logger.Debugf(ctx, "Loaded cover %s (%s, %s)", source, mimeType, humanize.Bytes(uint64(len(data))))

	return &Image{Data: data, MIMEType: mimeType}, nil
}

func (f *FetcherImpl) download(ctx context.Context, url string) ([]byte, string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, "", err
	}

	response, err := f.httpClient.Do(request)
	if err != nil {
		return nil, "", err
	}

	defer response.Body.Close() //nolint:errcheck // Error on close is not critical here.

	if response.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	data, err := readLimited(response.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", url, err)
	}

	return data, response.Header.Get("Content-Type"), nil
}

func readLocal(path string) ([]byte, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	defer file.Close() //nolint:errcheck // Read-only file.

	return readLimited(file)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, err
	}

	if len(data) > MaxImageSize {
		return nil, fmt.Errorf("%w: limit is %s", ErrImageTooLarge, humanize.Bytes(MaxImageSize))
	}

	return data, nil
}

func isRemote(source string) bool {
	lower := strings.ToLower(source)

	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// detectMIMEType prefers a declared image type and falls back to sniffing the content.
func detectMIMEType(data []byte, contentType string) string {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && strings.HasPrefix(mediaType, "image/") {
		return mediaType
	}

	mediaType, _, _ := mime.ParseMediaType(http.DetectContentType(data))

	return mediaType
}
