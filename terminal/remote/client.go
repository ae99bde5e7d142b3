// Package remote talks to a terminal through the HTTP proxy.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/mt5bridge/mql"
	"github.com/rustyeddy/mt5bridge/terminal"
)

var (
	_ terminal.Terminal      = (*Client)(nil)
	_ terminal.Authenticator = (*Client)(nil)
)

// DefaultURL is where the proxy listens unless configured otherwise.
const DefaultURL = "http://127.0.0.1:8000"

// Client is a proxy client. Authenticate before calling anything else unless
// a token was supplied with WithToken.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithToken reuses a token from an earlier login.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for the proxy at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Token returns the bearer token in use.
func (c *Client) Token() string { return c.token }

// Authenticate logs in and keeps the token for later requests.
func (c *Client) Authenticate(ctx context.Context, creds mql.AccountCredentials) error {
	return c.Login(ctx, creds, 0)
}

// Login is Authenticate with a terminal-side timeout.
func (c *Client) Login(ctx context.Context, creds mql.AccountCredentials, timeout time.Duration) error {
	body := LoginRequest{
		Login:     creds.Login,
		Password:  creds.Password,
		Server:    creds.Server,
		TimeoutMs: timeout.Milliseconds(),
	}
	var token string
	if err := c.do(ctx, http.MethodPost, PathLogin, nil, body, &token); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if token == "" {
		return fmt.Errorf("login: empty token")
	}
	c.token = token
	c.log.Info("proxy_login", zap.Int64("login", creds.Login), zap.String("server", creds.Server))
	return nil
}

// Shutdown gives the token back to the proxy. Failures are logged, never
// returned.
func (c *Client) Shutdown(ctx context.Context) error {
	if c.token == "" {
		return nil
	}
	if err := c.do(ctx, http.MethodPost, PathLogout, nil, nil, nil); err != nil {
		c.log.Warn("proxy_logout_failed", zap.Error(err))
	}
	c.token = ""
	return nil
}

// do sends one request. A non-2xx reply carrying a (code, message) body is
// returned as *mql.Error.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()
	c.log.Debug("proxy_request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		var te mql.Error
		if json.Unmarshal(raw, &te) == nil && te.Code != 0 {
			return &te
		}
		return fmt.Errorf("proxy error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func get[T any](ctx context.Context, c *Client, path string, q url.Values) (T, error) {
	var out T
	if err := c.do(ctx, http.MethodGet, path, q, nil, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func list[T any](ctx context.Context, c *Client, path string, q url.Values) ([]T, error) {
	out, err := get[[]T](ctx, c, path, q)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func filterQuery(q url.Values, f mql.Filter) url.Values {
	if q == nil {
		q = url.Values{}
	}
	if f.Symbol != "" {
		q.Set(ParamSymbol, f.Symbol)
	}
	if f.Group != "" {
		q.Set(ParamGroup, f.Group)
	}
	if f.Ticket != 0 {
		q.Set(ParamTicket, strconv.FormatInt(f.Ticket, 10))
	}
	if f.Position != 0 {
		q.Set(ParamPosition, strconv.FormatInt(f.Position, 10))
	}
	return q
}

func rangeQuery(from, to time.Time) url.Values {
	return url.Values{
		ParamFrom: {formatTime(from)},
		ParamTo:   {formatTime(to)},
	}
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func (c *Client) AccountInfo(ctx context.Context) (mql.AccountInfo, error) {
	return get[mql.AccountInfo](ctx, c, PathAccount, nil)
}

func (c *Client) TerminalInfo(ctx context.Context) (mql.TerminalInfo, error) {
	return get[mql.TerminalInfo](ctx, c, PathTerminal, nil)
}

func (c *Client) Version(ctx context.Context) (mql.TerminalVersion, error) {
	return get[mql.TerminalVersion](ctx, c, PathVersion, nil)
}

func (c *Client) SymbolsTotal(ctx context.Context) (int64, error) {
	return get[int64](ctx, c, PathSymbolsTotal, nil)
}

func (c *Client) SymbolsGet(ctx context.Context, group string) ([]mql.SymbolInfo, error) {
	var q url.Values
	if group != "" {
		q = url.Values{ParamGroup: {group}}
	}
	return list[mql.SymbolInfo](ctx, c, PathSymbols, q)
}

func (c *Client) SymbolInfo(ctx context.Context, symbol string) (mql.SymbolInfo, error) {
	return get[mql.SymbolInfo](ctx, c, SymbolPath(symbol, ""), nil)
}

func (c *Client) SymbolInfoTick(ctx context.Context, symbol string) (mql.Tick, error) {
	return get[mql.Tick](ctx, c, SymbolPath(symbol, "tick"), nil)
}

func (c *Client) SymbolSelect(ctx context.Context, symbol string, enable bool) (bool, error) {
	var out bool
	q := url.Values{ParamEnable: {strconv.FormatBool(enable)}}
	err := c.do(ctx, http.MethodPost, SymbolPath(symbol, "select"), q, nil, &out)
	return out, err
}

func ratesQuery(symbol string, tf mql.Timeframe) url.Values {
	return url.Values{
		ParamSymbol:    {symbol},
		ParamTimeframe: {strconv.FormatInt(int64(tf), 10)},
	}
}

func (c *Client) CopyRatesFrom(ctx context.Context, symbol string, tf mql.Timeframe, from time.Time, count int64) ([]mql.Rate, error) {
	q := ratesQuery(symbol, tf)
	q.Set(ParamFrom, formatTime(from))
	q.Set(ParamCount, strconv.FormatInt(count, 10))
	return list[mql.Rate](ctx, c, PathRatesFrom, q)
}

func (c *Client) CopyRatesFromPos(ctx context.Context, symbol string, tf mql.Timeframe, start, count int64) ([]mql.Rate, error) {
	q := ratesQuery(symbol, tf)
	q.Set(ParamStart, strconv.FormatInt(start, 10))
	q.Set(ParamCount, strconv.FormatInt(count, 10))
	return list[mql.Rate](ctx, c, PathRatesFromPos, q)
}

func (c *Client) CopyRatesRange(ctx context.Context, symbol string, tf mql.Timeframe, from, to time.Time) ([]mql.Rate, error) {
	q := ratesQuery(symbol, tf)
	q.Set(ParamFrom, formatTime(from))
	q.Set(ParamTo, formatTime(to))
	return list[mql.Rate](ctx, c, PathRatesRange, q)
}

func (c *Client) CopyTicksFrom(ctx context.Context, symbol string, from time.Time, count int64, flags mql.CopyTicksFlag) ([]mql.Tick, error) {
	q := url.Values{
		ParamSymbol: {symbol},
		ParamFrom:   {formatTime(from)},
		ParamCount:  {strconv.FormatInt(count, 10)},
		ParamFlags:  {strconv.FormatInt(int64(flags), 10)},
	}
	return list[mql.Tick](ctx, c, PathTicksFrom, q)
}

func (c *Client) CopyTicksRange(ctx context.Context, symbol string, from, to time.Time, flags mql.CopyTicksFlag) ([]mql.Tick, error) {
	q := rangeQuery(from, to)
	q.Set(ParamSymbol, symbol)
	q.Set(ParamFlags, strconv.FormatInt(int64(flags), 10))
	return list[mql.Tick](ctx, c, PathTicksRange, q)
}

func (c *Client) OrdersTotal(ctx context.Context) (int64, error) {
	return get[int64](ctx, c, PathOrdersTotal, nil)
}

func (c *Client) OrdersGet(ctx context.Context, f mql.Filter) ([]mql.Order, error) {
	return list[mql.Order](ctx, c, PathOrders, filterQuery(nil, f))
}

func calcQuery(t mql.OrderType, symbol string, volume float64) url.Values {
	return url.Values{
		ParamType:   {strconv.FormatInt(int64(t), 10)},
		ParamSymbol: {symbol},
		ParamVolume: {formatFloat(volume)},
	}
}

func (c *Client) OrderCalcMargin(ctx context.Context, t mql.OrderType, symbol string, volume, price float64) (float64, error) {
	q := calcQuery(t, symbol, volume)
	q.Set(ParamPrice, formatFloat(price))
	return get[float64](ctx, c, PathCalcMargin, q)
}

func (c *Client) OrderCalcProfit(ctx context.Context, t mql.OrderType, symbol string, volume, priceOpen, priceClose float64) (float64, error) {
	q := calcQuery(t, symbol, volume)
	q.Set(ParamPriceOpen, formatFloat(priceOpen))
	q.Set(ParamPriceClose, formatFloat(priceClose))
	return get[float64](ctx, c, PathCalcProfit, q)
}

func (c *Client) OrderCheck(ctx context.Context, req *mql.TradeRequestBuilder) (mql.CheckResult, error) {
	var out mql.CheckResult
	err := c.do(ctx, http.MethodPost, PathOrderCheck, nil, req, &out)
	return out, err
}

func (c *Client) OrderSend(ctx context.Context, req *mql.TradeRequestBuilder) (mql.TradeResult, error) {
	var out mql.TradeResult
	err := c.do(ctx, http.MethodPost, PathOrderSend, nil, req, &out)
	return out, err
}

func (c *Client) PositionsTotal(ctx context.Context) (int64, error) {
	return get[int64](ctx, c, PathPositionsTotal, nil)
}

func (c *Client) PositionsGet(ctx context.Context, f mql.Filter) ([]mql.Position, error) {
	return list[mql.Position](ctx, c, PathPositions, filterQuery(nil, f))
}

func (c *Client) HistoryOrdersTotal(ctx context.Context, from, to time.Time) (int64, error) {
	return get[int64](ctx, c, PathHistoryOrdersTot, rangeQuery(from, to))
}

func (c *Client) HistoryOrdersGet(ctx context.Context, from, to time.Time, f mql.Filter) ([]mql.Order, error) {
	return list[mql.Order](ctx, c, PathHistoryOrders, filterQuery(rangeQuery(from, to), f))
}

func (c *Client) HistoryDealsTotal(ctx context.Context, from, to time.Time) (int64, error) {
	return get[int64](ctx, c, PathHistoryDealsTot, rangeQuery(from, to))
}

func (c *Client) HistoryDealsGet(ctx context.Context, from, to time.Time, f mql.Filter) ([]mql.Deal, error) {
	return list[mql.Deal](ctx, c, PathHistoryDeals, filterQuery(rangeQuery(from, to), f))
}
