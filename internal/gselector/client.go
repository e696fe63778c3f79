// Package gselector talks to the traffic system's SOAP import/export
// service.
package gselector

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"credit-sync/internal/model"
)

// ServiceNamespace is the SOAP namespace of the import/export service.
const ServiceNamespace = "http://www.rcsworks.com/webservices/gselector/"

const (
	soapNamespace = "http://schemas.xmlsoap.org/soap/envelope/"
	xsiNamespace  = "http://www.w3.org/2001/XMLSchema-instance"
	xsdNamespace  = "http://www.w3.org/2001/XMLSchema"

	resultSuccess = "success"
)

// ImportError reports an ImportSongs call the service did not accept.
type ImportError struct {
	Result string
}

func (e *ImportError) Error() string {
	if e.Result == "" {
		return "import songs: no result reported"
	}
	return fmt.Sprintf("import songs: result %q", e.Result)
}

// FaultError is a SOAP fault or an unexpected HTTP status.
type FaultError struct {
	Action     string
	StatusCode int
	Fault      string
}

func (e *FaultError) Error() string {
	if e.Fault != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Action, e.StatusCode, e.Fault)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Action, e.StatusCode)
}

// Client calls the import/export service. Calls are spaced by a minimum
// interval so the service is not flooded.
type Client struct {
	httpClient *http.Client
	endpoint   string
	limiter    *rate.Limiter
}

// New creates a Client. A zero minInterval disables throttling.
func New(httpClient *http.Client, endpoint string, minInterval time.Duration) *Client {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

type envelope[T any] struct {
	XMLName xml.Name `xml:"soap:Envelope"`
	XSI     string   `xml:"xmlns:xsi,attr"`
	XSD     string   `xml:"xmlns:xsd,attr"`
	SOAP    string   `xml:"xmlns:soap,attr"`
	Header  struct {
		Connection connectionHeader `xml:"ConnectionHeader"`
	} `xml:"soap:Header"`
	Body struct {
		Payload T
	} `xml:"soap:Body"`
}

type connectionHeader struct {
	XMLName xml.Name `xml:"http://www.rcsworks.com/webservices/gselector/ ConnectionHeader"`
}

type findSongRequest struct {
	XMLName xml.Name `xml:"http://www.rcsworks.com/webservices/gselector/ FindSong"`
	Title   string   `xml:"title"`
	Artist  string   `xml:"artist"`
}

type importSongsRequest struct {
	XMLName xml.Name `xml:"http://www.rcsworks.com/webservices/gselector/ ImportSongs"`
	XMLIn   string   `xml:"xmlIn"`
}

type responseEnvelope struct {
	Body struct {
		FindSong struct {
			Result string `xml:"FindSongResult"`
		} `xml:"FindSongResponse"`
		ImportSongs struct {
			Result string `xml:"ImportSongsResult"`
		} `xml:"ImportSongsResponse"`
		Fault struct {
			Code   string `xml:"faultcode"`
			String string `xml:"faultstring"`
		} `xml:"Fault"`
	} `xml:"Body"`
}

type importResult struct {
	Result string `xml:"result,attr"`
}

// FindSong returns the song document the service holds for artist and title.
func (c *Client) FindSong(ctx context.Context, artist, title string) (string, error) {
	body, err := encode(newEnvelope(findSongRequest{Title: title, Artist: artist}))
	if err != nil {
		return "", fmt.Errorf("encode FindSong request: %w", err)
	}
	resp, err := c.call(ctx, "FindSong", body)
	if err != nil {
		return "", err
	}
	doc := strings.TrimSpace(resp.Body.FindSong.Result)
	if doc == "" {
		return "", fmt.Errorf("find song %s - %s: empty result: %w", artist, title, model.ErrMalformed)
	}
	return doc, nil
}

// ImportSongs submits a song document. A response whose result is not
// "success" yields an *ImportError.
func (c *Client) ImportSongs(ctx context.Context, document string) error {
	body, err := encode(newEnvelope(importSongsRequest{XMLIn: document}))
	if err != nil {
		return fmt.Errorf("encode ImportSongs request: %w", err)
	}
	resp, err := c.call(ctx, "ImportSongs", body)
	if err != nil {
		return err
	}

	raw := strings.TrimSpace(resp.Body.ImportSongs.Result)
	if raw == "" {
		return &ImportError{}
	}
	var result importResult
	if err := xml.Unmarshal([]byte(raw), &result); err != nil {
		return fmt.Errorf("decode import result: %v: %w", err, model.ErrMalformed)
	}
	if result.Result != resultSuccess {
		return &ImportError{Result: result.Result}
	}
	return nil
}

func (c *Client) call(ctx context.Context, action string, body []byte) (responseEnvelope, error) {
	var out responseEnvelope

	if err := c.limiter.Wait(ctx); err != nil {
		return out, fmt.Errorf("%s: wait for rate limiter: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return out, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", ServiceNamespace+action)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return out, fmt.Errorf("%s request: %w", action, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, fmt.Errorf("read %s response: %w", action, err)
	}

	decodeErr := xml.Unmarshal(data, &out)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || out.Body.Fault.String != "" {
		return out, &FaultError{Action: action, StatusCode: resp.StatusCode, Fault: out.Body.Fault.String}
	}
	if decodeErr != nil {
		return out, fmt.Errorf("decode %s response: %v: %w", action, decodeErr, model.ErrMalformed)
	}
	return out, nil
}

func newEnvelope[T any](payload T) envelope[T] {
	env := envelope[T]{XSI: xsiNamespace, XSD: xsdNamespace, SOAP: soapNamespace}
	env.Body.Payload = payload
	return env
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
