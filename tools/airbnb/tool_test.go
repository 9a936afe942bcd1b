package airbnb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchPage = `<html><body>
<div data-testid="card-container">
  <a href="/rooms/12345"></a>
  <div data-testid="listing-card-title">京都・町家一棟貸し</div>
  <div data-testid="price-availability-row"><span>¥18,000 /泊</span><span>合計</span></div>
</div>
<div data-testid="card-container">
  <a href="https://www.airbnb.jp/rooms/67890"></a>
  <div data-testid="listing-card-title">鴨川沿いのアパートメント</div>
  <div data-testid="price-availability-row"><span>¥9,800 /泊</span></div>
</div>
<div data-testid="card-container">
  <div data-testid="listing-card-title"></div>
</div>
</body></html>`

func TestRunScrapesCards(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "京都")
		assert.Equal(t, "2", r.URL.Query().Get("adults"))
		w.Write([]byte(searchPage))
	}))
	defer srv.Close()

	tool := NewRentalSearch(WithBaseURL(srv.URL))
	out, err := tool.Run(context.Background(), &Input{Location: "京都", Guests: 2})
	require.NoError(t, err)
	require.Len(t, out.Listings, 2)

	first := out.Listings[0]
	assert.Equal(t, "京都・町家一棟貸し", first.Title)
	assert.Equal(t, "¥18,000 /泊", first.Price)
	assert.Equal(t, "https://www.airbnb.jp/rooms/12345", first.URL)
	assert.False(t, first.Synthetic)

	assert.Equal(t, "https://www.airbnb.jp/rooms/67890", out.Listings[1].URL)
	assert.Contains(t, out.Message, "2件")
}

func TestRunEmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body></body></html>"))
	}))
	defer srv.Close()

	out, err := NewRentalSearch(WithBaseURL(srv.URL)).Run(context.Background(), NewInput("京都"))
	require.NoError(t, err)
	assert.True(t, out.IsEmpty())
	assert.Contains(t, out.Message, "見つかりませんでした")
}

func TestRunUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewRentalSearch(WithBaseURL(srv.URL)).Run(context.Background(), NewInput("京都"))
	require.Error(t, err)
}

func TestSyntheticListingsTagged(t *testing.T) {
	listings := SyntheticListings("京都")
	require.Len(t, listings, 3)
	for _, l := range listings {
		assert.True(t, l.Synthetic)
		assert.Contains(t, l.Title, "京都")
		assert.NotEmpty(t, l.Price)
	}
}
