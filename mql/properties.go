package mql

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// AccountInfoProperty names one AccountInfo field.
type AccountInfoProperty string

const (
	AccountInfoLogin             AccountInfoProperty = "login"
	AccountInfoTradeMode         AccountInfoProperty = "trade_mode"
	AccountInfoLeverage          AccountInfoProperty = "leverage"
	AccountInfoLimitOrders       AccountInfoProperty = "limit_orders"
	AccountInfoMarginSoMode      AccountInfoProperty = "margin_so_mode"
	AccountInfoTradeAllowed      AccountInfoProperty = "trade_allowed"
	AccountInfoTradeExpert       AccountInfoProperty = "trade_expert"
	AccountInfoMarginMode        AccountInfoProperty = "margin_mode"
	AccountInfoCurrencyDigits    AccountInfoProperty = "currency_digits"
	AccountInfoFifoClose         AccountInfoProperty = "fifo_close"
	AccountInfoBalance           AccountInfoProperty = "balance"
	AccountInfoCredit            AccountInfoProperty = "credit"
	AccountInfoProfit            AccountInfoProperty = "profit"
	AccountInfoEquity            AccountInfoProperty = "equity"
	AccountInfoMargin            AccountInfoProperty = "margin"
	AccountInfoMarginFree        AccountInfoProperty = "margin_free"
	AccountInfoMarginLevel       AccountInfoProperty = "margin_level"
	AccountInfoMarginSoCall      AccountInfoProperty = "margin_so_call"
	AccountInfoMarginSoSo        AccountInfoProperty = "margin_so_so"
	AccountInfoMarginInitial     AccountInfoProperty = "margin_initial"
	AccountInfoMarginMaintenance AccountInfoProperty = "margin_maintenance"
	AccountInfoAssets            AccountInfoProperty = "assets"
	AccountInfoLiabilities       AccountInfoProperty = "liabilities"
	AccountInfoCommissionBlocked AccountInfoProperty = "commission_blocked"
	AccountInfoName              AccountInfoProperty = "name"
	AccountInfoServer            AccountInfoProperty = "server"
	AccountInfoCurrency          AccountInfoProperty = "currency"
	AccountInfoCompany           AccountInfoProperty = "company"
)

// TerminalInfoProperty names one TerminalInfo field.
type TerminalInfoProperty string

const (
	TerminalInfoCommunityAccount     TerminalInfoProperty = "community_account"
	TerminalInfoCommunityConnection  TerminalInfoProperty = "community_connection"
	TerminalInfoConnected            TerminalInfoProperty = "connected"
	TerminalInfoDllsAllowed          TerminalInfoProperty = "dlls_allowed"
	TerminalInfoTradeAllowed         TerminalInfoProperty = "trade_allowed"
	TerminalInfoTradeAPIDisabled     TerminalInfoProperty = "tradeapi_disabled"
	TerminalInfoEmailEnabled         TerminalInfoProperty = "email_enabled"
	TerminalInfoFtpEnabled           TerminalInfoProperty = "ftp_enabled"
	TerminalInfoNotificationsEnabled TerminalInfoProperty = "notifications_enabled"
	TerminalInfoMQID                 TerminalInfoProperty = "mqid"
	TerminalInfoBuild                TerminalInfoProperty = "build"
	TerminalInfoMaxBars              TerminalInfoProperty = "maxbars"
	TerminalInfoCodePage             TerminalInfoProperty = "codepage"
	TerminalInfoPingLast             TerminalInfoProperty = "ping_last"
	TerminalInfoCommunityBalance     TerminalInfoProperty = "community_balance"
	TerminalInfoRetransmission       TerminalInfoProperty = "retransmission"
	TerminalInfoCompany              TerminalInfoProperty = "company"
	TerminalInfoName                 TerminalInfoProperty = "name"
	TerminalInfoLanguage             TerminalInfoProperty = "language"
	TerminalInfoPath                 TerminalInfoProperty = "path"
	TerminalInfoDataPath             TerminalInfoProperty = "data_path"
	TerminalInfoCommonDataPath       TerminalInfoProperty = "commondata_path"
)

var tagIndex sync.Map // reflect.Type -> map[string]int

func fieldByTag(rec any, name string) (reflect.Value, error) {
	v := reflect.Indirect(reflect.ValueOf(rec))
	t := v.Type()
	idx, ok := tagIndex.Load(t)
	if !ok {
		m := make(map[string]int, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			tag, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
			if tag != "" && tag != "-" {
				m[tag] = i
			}
		}
		idx, _ = tagIndex.LoadOrStore(t, m)
	}
	i, ok := idx.(map[string]int)[name]
	if !ok {
		return reflect.Value{}, fmt.Errorf("%s.%s: %w", t.Name(), name, ErrUnknownProperty)
	}
	return v.Field(i), nil
}

func propString(rec any, name string) (string, error) {
	f, err := fieldByTag(rec, name)
	if err != nil {
		return "", err
	}
	if f.Kind() != reflect.String {
		return "", fmt.Errorf("%s is %s, not string: %w", name, f.Kind(), ErrPropertyKind)
	}
	return f.String(), nil
}

func propInt(rec any, name string) (int64, error) {
	f, err := fieldByTag(rec, name)
	if err != nil {
		return 0, err
	}
	if f.Kind() != reflect.Int64 {
		return 0, fmt.Errorf("%s is %s, not integer: %w", name, f.Kind(), ErrPropertyKind)
	}
	return f.Int(), nil
}

func propFloat(rec any, name string) (float64, error) {
	f, err := fieldByTag(rec, name)
	if err != nil {
		return 0, err
	}
	if f.Kind() != reflect.Float64 {
		return 0, fmt.Errorf("%s is %s, not float: %w", name, f.Kind(), ErrPropertyKind)
	}
	return f.Float(), nil
}

func propBool(rec any, name string) (bool, error) {
	f, err := fieldByTag(rec, name)
	if err != nil {
		return false, err
	}
	if f.Kind() != reflect.Bool {
		return false, fmt.Errorf("%s is %s, not bool: %w", name, f.Kind(), ErrPropertyKind)
	}
	return f.Bool(), nil
}

func (a *AccountInfo) InfoString(p AccountInfoProperty) (string, error) { return propString(a, string(p)) }
func (a *AccountInfo) InfoInt(p AccountInfoProperty) (int64, error)     { return propInt(a, string(p)) }
func (a *AccountInfo) InfoFloat(p AccountInfoProperty) (float64, error) { return propFloat(a, string(p)) }
func (a *AccountInfo) InfoBool(p AccountInfoProperty) (bool, error)     { return propBool(a, string(p)) }

func (t *TerminalInfo) InfoString(p TerminalInfoProperty) (string, error) {
	return propString(t, string(p))
}
func (t *TerminalInfo) InfoInt(p TerminalInfoProperty) (int64, error) { return propInt(t, string(p)) }
func (t *TerminalInfo) InfoFloat(p TerminalInfoProperty) (float64, error) {
	return propFloat(t, string(p))
}
func (t *TerminalInfo) InfoBool(p TerminalInfoProperty) (bool, error) { return propBool(t, string(p)) }

func (s *SymbolInfo) InfoString(p SymbolInfoProperty) (string, error) { return propString(s, string(p)) }
func (s *SymbolInfo) InfoInt(p SymbolInfoProperty) (int64, error)     { return propInt(s, string(p)) }
func (s *SymbolInfo) InfoFloat(p SymbolInfoProperty) (float64, error) { return propFloat(s, string(p)) }
func (s *SymbolInfo) InfoBool(p SymbolInfoProperty) (bool, error)     { return propBool(s, string(p)) }
