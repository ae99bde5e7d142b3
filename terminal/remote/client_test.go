package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/mt5bridge/mql"
)

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNew(t *testing.T) {
	c := New("http://localhost:8000/", WithToken("abc"))
	assert.Equal(t, "http://localhost:8000", c.baseURL)
	assert.Equal(t, "abc", c.Token())
	assert.Equal(t, 30*time.Second, c.httpClient.Timeout)

	h := &http.Client{Timeout: time.Second}
	c = New(DefaultURL, WithHTTPClient(h))
	assert.Same(t, h, c.httpClient)
}

func TestAuthenticate(t *testing.T) {
	creds := mql.AccountCredentials{Login: 5001, Password: "pw", Server: "Demo"}

	t.Run("token is kept and sent", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case PathLogin:
				assert.Equal(t, http.MethodPost, r.Method)
				var body LoginRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, creds.Login, body.Login)
				assert.Equal(t, "pw", body.Password)
				assert.Zero(t, body.TimeoutMs)
				writeJSON(t, w, http.StatusOK, "tok-1")
			case PathAccount:
				assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
				writeJSON(t, w, http.StatusOK, mql.AccountInfo{Login: 5001, Balance: 10000, Currency: "USD"})
			default:
				http.NotFound(w, r)
			}
		}))
		defer server.Close()

		c := New(server.URL)
		require.NoError(t, c.Authenticate(context.Background(), creds))
		assert.Equal(t, "tok-1", c.Token())

		acct, err := c.AccountInfo(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(5001), acct.Login)
		assert.Equal(t, 10000.0, acct.Balance)
	})

	t.Run("rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusUnauthorized, mql.Error{Code: mql.RuntimeAuthFailed, Message: "Terminal: Authorization failed"})
		}))
		defer server.Close()

		c := New(server.URL)
		err := c.Authenticate(context.Background(), creds)
		assert.ErrorIs(t, err, mql.ErrAuthFailed)
		assert.Empty(t, c.Token())
	})
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "terminal error body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, http.StatusBadRequest, map[string]any{"code": -4, "message": "Terminal: Not found"})
			},
			check: func(t *testing.T, err error) {
				var te *mql.Error
				require.ErrorAs(t, err, &te)
				assert.Equal(t, mql.RuntimeNotFound, te.Code)
				assert.Equal(t, "Terminal: Not found", te.Message)
			},
		},
		{
			name: "plain error body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "gateway down", http.StatusBadGateway)
			},
			check: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "status 502")
				assert.Contains(t, err.Error(), "gateway down")
			},
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"ticket": "oops"`))
			},
			check: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "decode response")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := New(server.URL).SymbolInfo(context.Background(), "EURUSD")
			tt.check(t, err)
		})
	}

	t.Run("transport", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		_, err := New(url).AccountInfo(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "execute request")
	})
}

func TestQueryEncoding(t *testing.T) {
	from := time.Date(2024, 7, 15, 10, 0, 0, 0, time.UTC)
	to := from.Add(2 * time.Hour)

	var got *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		writeJSON(t, w, http.StatusOK, []mql.Rate{{Time: from.Unix(), Open: 1, High: 2, Low: 0.5, Close: 1.5}})
	}))
	defer server.Close()
	c := New(server.URL)
	ctx := context.Background()

	rates, err := c.CopyRatesFrom(ctx, "EURUSD", mql.TimeframeH1, from, 10)
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, PathRatesFrom, got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "16385", q.Get(ParamTimeframe))
	assert.Equal(t, "2024-07-15T10:00:00Z", q.Get(ParamFrom))
	assert.Equal(t, "10", q.Get(ParamCount))

	_, err = c.HistoryDealsGet(ctx, from, to, mql.Filter{Symbol: "EURUSD", Position: 77})
	require.NoError(t, err)
	assert.Equal(t, PathHistoryDeals, got.URL.Path)
	q = got.URL.Query()
	assert.Equal(t, "2024-07-15T12:00:00Z", q.Get(ParamTo))
	assert.Equal(t, "77", q.Get(ParamPosition))
	assert.Equal(t, "EURUSD", q.Get(ParamSymbol))
	assert.Empty(t, q.Get(ParamTicket))

	_, err = c.SymbolsGet(ctx, "*,!*USD*")
	require.NoError(t, err)
	assert.Equal(t, "*,!*USD*", got.URL.Query().Get(ParamGroup))
}

func TestNullListIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("null"))
	}))
	defer server.Close()

	positions, err := New(server.URL).PositionsGet(context.Background(), mql.Filter{})
	require.NoError(t, err)
	assert.NotNil(t, positions)
	assert.Empty(t, positions)
}

func TestOrderSendBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathOrderSend, r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "sl")
		assert.NotContains(t, body, "tp")
		writeJSON(t, w, http.StatusOK, mql.TradeResult{
			Retcode: int64(mql.ReturnCodeDone),
			Request: mql.TradeRequest{Symbol: body["symbol"].(string), Volume: body["volume"].(float64)},
		})
	}))
	defer server.Close()

	req := mql.NewTradeRequest().
		WithAction(mql.TradeActionDeal).
		WithSymbol("EURUSD").
		WithVolume(0.5).
		WithType(mql.OrderTypeBuy)
	res, err := New(server.URL).OrderSend(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, mql.ReturnCodeDone, res.ReturnCode())
	assert.Equal(t, "EURUSD", res.Request.Symbol)
	assert.Equal(t, 0.5, res.Request.Volume)
}

func TestPropertyAccessorsRefetch(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, SymbolPath("EURUSD", ""), r.URL.Path)
		n := hits.Add(1)
		writeJSON(t, w, http.StatusOK, mql.SymbolInfo{Name: "EURUSD", Point: 0.00001, Digits: 5, Bid: 1.08 + float64(n)/1000})
	}))
	defer server.Close()
	c := New(server.URL)
	ctx := context.Background()

	first, err := c.SymbolInfoFloat(ctx, "EURUSD", mql.SymbolInfoBid)
	require.NoError(t, err)
	second, err := c.SymbolInfoFloat(ctx, "EURUSD", mql.SymbolInfoBid)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, int32(2), hits.Load())

	digits, err := c.SymbolInfoInt(ctx, "EURUSD", mql.SymbolInfoDigits)
	require.NoError(t, err)
	assert.Equal(t, int64(5), digits)

	_, err = c.SymbolInfoString(ctx, "EURUSD", mql.SymbolInfoDigits)
	assert.ErrorIs(t, err, mql.ErrPropertyKind)

	_, err = c.SymbolInfoBool(ctx, "EURUSD", mql.SymbolInfoProperty("no_such_field"))
	assert.ErrorIs(t, err, mql.ErrUnknownProperty)
}

func TestShutdownLogsOut(t *testing.T) {
	var loggedOut bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == PathLogout {
			loggedOut = r.Header.Get("Authorization") == "Bearer tok"
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	c := New(server.URL, WithToken("tok"))
	require.NoError(t, c.Shutdown(context.Background()))
	assert.True(t, loggedOut)
	assert.Empty(t, c.Token())

	// a second shutdown has nothing to do
	require.NoError(t, c.Shutdown(context.Background()))
}
