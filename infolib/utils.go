package infolib

import (
	"io"
	"net/http"
)

func flushResponse(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}

	io.Copy(io.Discard, resp.Body) // nolint: errcheck
	resp.Body.Close()
}
