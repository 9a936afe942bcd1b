package gcal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/omakase-ai/concierge/tools"
)

// DefaultAPIBaseURL is the Calendar API root.
const DefaultAPIBaseURL = "https://www.googleapis.com/calendar/v3"

// RESTInserter inserts events through the Calendar REST API with a bearer
// token supplied by the caller.
type RESTInserter struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

type RESTOption func(*RESTInserter)

func WithRESTBaseURL(baseURL string) RESTOption {
	return func(r *RESTInserter) {
		r.baseURL = baseURL
	}
}

func WithRESTHttpClient(clt *http.Client) RESTOption {
	return func(r *RESTInserter) {
		r.httpClient = clt
	}
}

func NewRESTInserter(accessToken string, opts ...RESTOption) *RESTInserter {
	ret := &RESTInserter{
		baseURL:     DefaultAPIBaseURL,
		accessToken: accessToken,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.httpClient == nil {
		ret.httpClient = http.DefaultClient
	}
	return ret
}

func (r *RESTInserter) InsertEvent(ctx context.Context, calendarID string, ev *Event) (*InsertedEvent, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, tools.NewProviderError(tools.ErrUnknown, err)
	}
	endpoint := fmt.Sprintf("%s/calendars/%s/events", r.baseURL, url.PathEscape(calendarID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, tools.NewProviderError(tools.ErrUnknown, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+r.accessToken)
	httpReq.Header.Set("Content-Type", "application/json")
	httpResp, err := r.httpClient.Do(httpReq)
	if err != nil {
		return nil, tools.Classify(err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return nil, tools.ClassifyHTTP(httpResp.StatusCode, fmt.Errorf("calendar insert: status %d", httpResp.StatusCode))
	}
	var inserted InsertedEvent
	if err := json.NewDecoder(httpResp.Body).Decode(&inserted); err != nil {
		return nil, tools.NewProviderError(tools.ErrMalformed, err)
	}
	return &inserted, nil
}
