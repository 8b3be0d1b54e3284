package providers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/9seconds/ipinfo/infolib"
)

func flushResponse(resp io.ReadCloser) {
	io.Copy(io.Discard, resp) // nolint: errcheck
	resp.Close()
}

func getJSON(ctx context.Context, client infolib.HTTPClient, url string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("cannot build a request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("cannot send a request: %w", err)
	}

	defer flushResponse(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	jsonDecoder := json.NewDecoder(bufio.NewReader(resp.Body))

	if err := jsonDecoder.Decode(target); err != nil {
		return fmt.Errorf("cannot parse a response: %w", err)
	}

	return nil
}

// flexFloat accepts both JSON numbers and strings with numbers. Some
// providers send coordinates as strings.
type flexFloat struct {
	value *float64
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)

	if raw == "" || raw == "null" {
		return nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("incorrect number %s: %w", raw, err)
	}

	f.value = &value

	return nil
}

func (f flexFloat) Ptr() *float64 {
	return f.value
}
