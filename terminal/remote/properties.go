package remote

import (
	"context"

	"github.com/rustyeddy/mt5bridge/mql"
)

// The accessors below fetch the whole record on every call and then pick
// one property out of it.

func (c *Client) AccountInfoString(ctx context.Context, p mql.AccountInfoProperty) (string, error) {
	a, err := c.AccountInfo(ctx)
	if err != nil {
		return "", err
	}
	return a.InfoString(p)
}

func (c *Client) AccountInfoInt(ctx context.Context, p mql.AccountInfoProperty) (int64, error) {
	a, err := c.AccountInfo(ctx)
	if err != nil {
		return 0, err
	}
	return a.InfoInt(p)
}

func (c *Client) AccountInfoFloat(ctx context.Context, p mql.AccountInfoProperty) (float64, error) {
	a, err := c.AccountInfo(ctx)
	if err != nil {
		return 0, err
	}
	return a.InfoFloat(p)
}

func (c *Client) AccountInfoBool(ctx context.Context, p mql.AccountInfoProperty) (bool, error) {
	a, err := c.AccountInfo(ctx)
	if err != nil {
		return false, err
	}
	return a.InfoBool(p)
}

func (c *Client) TerminalInfoString(ctx context.Context, p mql.TerminalInfoProperty) (string, error) {
	t, err := c.TerminalInfo(ctx)
	if err != nil {
		return "", err
	}
	return t.InfoString(p)
}

func (c *Client) TerminalInfoInt(ctx context.Context, p mql.TerminalInfoProperty) (int64, error) {
	t, err := c.TerminalInfo(ctx)
	if err != nil {
		return 0, err
	}
	return t.InfoInt(p)
}

func (c *Client) TerminalInfoFloat(ctx context.Context, p mql.TerminalInfoProperty) (float64, error) {
	t, err := c.TerminalInfo(ctx)
	if err != nil {
		return 0, err
	}
	return t.InfoFloat(p)
}

func (c *Client) TerminalInfoBool(ctx context.Context, p mql.TerminalInfoProperty) (bool, error) {
	t, err := c.TerminalInfo(ctx)
	if err != nil {
		return false, err
	}
	return t.InfoBool(p)
}

func (c *Client) SymbolInfoString(ctx context.Context, symbol string, p mql.SymbolInfoProperty) (string, error) {
	s, err := c.SymbolInfo(ctx, symbol)
	if err != nil {
		return "", err
	}
	return s.InfoString(p)
}

func (c *Client) SymbolInfoInt(ctx context.Context, symbol string, p mql.SymbolInfoProperty) (int64, error) {
	s, err := c.SymbolInfo(ctx, symbol)
	if err != nil {
		return 0, err
	}
	return s.InfoInt(p)
}

func (c *Client) SymbolInfoFloat(ctx context.Context, symbol string, p mql.SymbolInfoProperty) (float64, error) {
	s, err := c.SymbolInfo(ctx, symbol)
	if err != nil {
		return 0, err
	}
	return s.InfoFloat(p)
}

func (c *Client) SymbolInfoBool(ctx context.Context, symbol string, p mql.SymbolInfoProperty) (bool, error) {
	s, err := c.SymbolInfo(ctx, symbol)
	if err != nil {
		return false, err
	}
	return s.InfoBool(p)
}
