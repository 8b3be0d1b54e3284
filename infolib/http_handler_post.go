package infolib

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/qri-io/jsonschema"
)

const maxPostQueries = 100

var handlePostRequestJSONSchema = func() *jsonschema.Schema {
	data := `{
        "type": "object",
        "required": [
            "queries"
        ],
        "additionalProperties": false,
        "properties": {
            "queries": {
                "type": "array",
                "minItems": 1,
                "maxItems": 100,
                "items": {
                    "type": "string",
                    "minLength": 1,
                    "maxLength": 255
                }
            }
        }
    }`

	rv := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(data), rv); err != nil {
		panic(err)
	}

	return rv
}()

type handlePostRequest struct {
	Queries []string `json:"queries"`
}

type handlePostResponse struct {
	Results []LookupResult `json:"results"`
}

func (h httpHandler) handlePostLookup(w http.ResponseWriter, req *http.Request) {
	if !strings.Contains(req.Header.Get("Content-Type"), "application/json") {
		h.sendError(w, nil, "Incorrect content type", http.StatusUnsupportedMediaType)

		return
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(req.Body, 64*1024))

	req.Body.Close()

	if err != nil {
		h.sendError(w, err, "Cannot read request body", http.StatusBadRequest)

		return
	}

	errs, err := handlePostRequestJSONSchema.ValidateBytes(req.Context(), bodyBytes)
	if err != nil {
		h.sendError(w, err, "Cannot validate body", http.StatusBadRequest)

		return
	}

	if len(errs) > 0 {
		h.sendError(w, errs[0], "Invalid request body", http.StatusBadRequest)

		return
	}

	parsedRequest := &handlePostRequest{}
	if err := json.Unmarshal(bodyBytes, parsedRequest); err != nil {
		h.sendError(w, err, "Cannot parse request JSON", http.StatusBadRequest)

		return
	}

	results, err := h.resolver.LookupAll(req.Context(),
		handlePostUniqueQueries(parsedRequest.Queries))
	if err != nil {
		h.sendError(w, err, "Cannot resolve given queries", http.StatusInternalServerError)

		return
	}

	h.encodeJSON(w, handlePostResponse{Results: results})
}

func handlePostUniqueQueries(queries []string) []string {
	seen := map[string]bool{}
	rv := make([]string, 0, len(queries))

	for _, v := range queries {
		v = strings.TrimSpace(v)

		if !seen[v] && len(rv) < maxPostQueries {
			seen[v] = true
			rv = append(rv, v)
		}
	}

	return rv
}
