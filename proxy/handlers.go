package proxy

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rustyeddy/mt5bridge/mql"
)

// Query strings. Times are RFC 3339.
type (
	filterQuery struct {
		Symbol   string `form:"symbol"`
		Group    string `form:"group"`
		Ticket   int64  `form:"ticket" binding:"gte=0"`
		Position int64  `form:"position" binding:"gte=0"`
	}

	rangeQuery struct {
		From time.Time `form:"from" binding:"required" time_format:"2006-01-02T15:04:05Z07:00" time_utc:"1"`
		To   time.Time `form:"to" binding:"required" time_format:"2006-01-02T15:04:05Z07:00" time_utc:"1"`
	}

	ratesFromQuery struct {
		Symbol    string    `form:"symbol" binding:"required"`
		Timeframe int64     `form:"timeframe" binding:"required"`
		From      time.Time `form:"from" binding:"required" time_format:"2006-01-02T15:04:05Z07:00" time_utc:"1"`
		Count     int64     `form:"count" binding:"required,gt=0"`
	}

	ratesFromPosQuery struct {
		Symbol    string `form:"symbol" binding:"required"`
		Timeframe int64  `form:"timeframe" binding:"required"`
		Start     int64  `form:"start" binding:"gte=0"`
		Count     int64  `form:"count" binding:"required,gt=0"`
	}

	ratesRangeQuery struct {
		rangeQuery
		Symbol    string `form:"symbol" binding:"required"`
		Timeframe int64  `form:"timeframe" binding:"required"`
	}

	ticksFromQuery struct {
		Symbol string    `form:"symbol" binding:"required"`
		From   time.Time `form:"from" binding:"required" time_format:"2006-01-02T15:04:05Z07:00" time_utc:"1"`
		Count  int64     `form:"count" binding:"required,gt=0"`
		Flags  int64     `form:"flags" binding:"required"`
	}

	ticksRangeQuery struct {
		rangeQuery
		Symbol string `form:"symbol" binding:"required"`
		Flags  int64  `form:"flags" binding:"required"`
	}

	// Type is a pointer so BUY (0) is told apart from a missing value.
	calcQuery struct {
		Type       *int64  `form:"type" binding:"required"`
		Symbol     string  `form:"symbol" binding:"required"`
		Volume     float64 `form:"volume" binding:"required,gt=0"`
		Price      float64 `form:"price"`
		PriceOpen  float64 `form:"price_open"`
		PriceClose float64 `form:"price_close"`
	}

	historyQuery struct {
		rangeQuery
		filterQuery
	}
)

func (q filterQuery) filter() mql.Filter {
	return mql.Filter{Symbol: q.Symbol, Group: q.Group, Ticket: q.Ticket, Position: q.Position}
}

func (s *Server) accountInfo(c *gin.Context) {
	serve(s, c, s.term.AccountInfo)
}

func (s *Server) terminalInfo(c *gin.Context) {
	serve(s, c, s.term.TerminalInfo)
}

func (s *Server) version(c *gin.Context) {
	serve(s, c, s.term.Version)
}

func (s *Server) symbolsTotal(c *gin.Context) {
	serve(s, c, s.term.SymbolsTotal)
}

func (s *Server) symbolsGet(c *gin.Context) {
	group := c.Query("group")
	serve(s, c, func(ctx context.Context) ([]mql.SymbolInfo, error) { return s.term.SymbolsGet(ctx, group) })
}

func (s *Server) symbolInfo(c *gin.Context) {
	symbol := c.Param("symbol")
	serve(s, c, func(ctx context.Context) (mql.SymbolInfo, error) { return s.term.SymbolInfo(ctx, symbol) })
}

func (s *Server) symbolInfoTick(c *gin.Context) {
	symbol := c.Param("symbol")
	serve(s, c, func(ctx context.Context) (mql.Tick, error) { return s.term.SymbolInfoTick(ctx, symbol) })
}

func (s *Server) symbolSelect(c *gin.Context) {
	var q struct {
		Enable *bool `form:"enable"`
	}
	if !bindQuery(c, &q) {
		return
	}
	symbol, enable := c.Param("symbol"), q.Enable == nil || *q.Enable
	serve(s, c, func(ctx context.Context) (bool, error) { return s.term.SymbolSelect(ctx, symbol, enable) })
}

func (s *Server) copyRatesFrom(c *gin.Context) {
	var q ratesFromQuery
	if !bindQuery(c, &q) {
		return
	}
	serve(s, c, func(ctx context.Context) ([]mql.Rate, error) {
		return s.term.CopyRatesFrom(ctx, q.Symbol, mql.Timeframe(q.Timeframe), q.From, q.Count)
	})
}

func (s *Server) copyRatesFromPos(c *gin.Context) {
	var q ratesFromPosQuery
	if !bindQuery(c, &q) {
		return
	}
	serve(s, c, func(ctx context.Context) ([]mql.Rate, error) {
		return s.term.CopyRatesFromPos(ctx, q.Symbol, mql.Timeframe(q.Timeframe), q.Start, q.Count)
	})
}

func (s *Server) copyRatesRange(c *gin.Context) {
	var q ratesRangeQuery
	if !bindQuery(c, &q) {
		return
	}
	serve(s, c, func(ctx context.Context) ([]mql.Rate, error) {
		return s.term.CopyRatesRange(ctx, q.Symbol, mql.Timeframe(q.Timeframe), q.From, q.To)
	})
}

func (s *Server) copyTicksFrom(c *gin.Context) {
	var q ticksFromQuery
	if !bindQuery(c, &q) {
		return
	}
	serve(s, c, func(ctx context.Context) ([]mql.Tick, error) {
		return s.term.CopyTicksFrom(ctx, q.Symbol, q.From, q.Count, mql.CopyTicksFlag(q.Flags))
	})
}

func (s *Server) copyTicksRange(c *gin.Context) {
	var q ticksRangeQuery
	if !bindQuery(c, &q) {
		return
	}
	serve(s, c, func(ctx context.Context) ([]mql.Tick, error) {
		return s.term.CopyTicksRange(ctx, q.Symbol, q.From, q.To, mql.CopyTicksFlag(q.Flags))
	})
}

func (s *Server) ordersTotal(c *gin.Context) {
	serve(s, c, s.term.OrdersTotal)
}

func (s *Server) ordersGet(c *gin.Context) {
	var q filterQuery
	if !bindQuery(c, &q) {
		return
	}
	serve(s, c, func(ctx context.Context) ([]mql.Order, error) { return s.term.OrdersGet(ctx, q.filter()) })
}

func (s *Server) orderCalcMargin(c *gin.Context) {
	var q calcQuery
	if !bindQuery(c, &q) {
		return
	}
	if q.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be positive"})
		return
	}
	serve(s, c, func(ctx context.Context) (float64, error) {
		return s.term.OrderCalcMargin(ctx, mql.OrderType(*q.Type), q.Symbol, q.Volume, q.Price)
	})
}

func (s *Server) orderCalcProfit(c *gin.Context) {
	var q calcQuery
	if !bindQuery(c, &q) {
		return
	}
	serve(s, c, func(ctx context.Context) (float64, error) {
		return s.term.OrderCalcProfit(ctx, mql.OrderType(*q.Type), q.Symbol, q.Volume, q.PriceOpen, q.PriceClose)
	})
}

func bindRequest(c *gin.Context) (*mql.TradeRequestBuilder, bool) {
	req := mql.NewTradeRequest()
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trade request: " + err.Error()})
		return nil, false
	}
	return req, true
}

func (s *Server) orderCheck(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	serve(s, c, func(ctx context.Context) (mql.CheckResult, error) {
		res, err := s.term.OrderCheck(ctx, req)
		if err == nil && s.journal != nil {
			if jerr := s.journal.RecordCheck(res); jerr != nil {
				s.log.Warn("journal_record_failed", zap.Error(jerr))
			}
		}
		return res, err
	})
}

func (s *Server) orderSend(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	serve(s, c, func(ctx context.Context) (mql.TradeResult, error) {
		res, err := s.term.OrderSend(ctx, req)
		if err == nil && s.journal != nil {
			if jerr := s.journal.RecordSend(res); jerr != nil {
				s.log.Warn("journal_record_failed", zap.Error(jerr))
			}
		}
		return res, err
	})
}

func (s *Server) positionsTotal(c *gin.Context) {
	serve(s, c, s.term.PositionsTotal)
}

func (s *Server) positionsGet(c *gin.Context) {
	var q filterQuery
	if !bindQuery(c, &q) {
		return
	}
	serve(s, c, func(ctx context.Context) ([]mql.Position, error) { return s.term.PositionsGet(ctx, q.filter()) })
}

func (s *Server) historyOrdersTotal(c *gin.Context) {
	var q rangeQuery
	if !bindQuery(c, &q) {
		return
	}
	serve(s, c, func(ctx context.Context) (int64, error) { return s.term.HistoryOrdersTotal(ctx, q.From, q.To) })
}

func (s *Server) historyOrdersGet(c *gin.Context) {
	var q historyQuery
	if !bindQuery(c, &q) {
		return
	}
	serve(s, c, func(ctx context.Context) ([]mql.Order, error) {
		return s.term.HistoryOrdersGet(ctx, q.From, q.To, q.filter())
	})
}

func (s *Server) historyDealsTotal(c *gin.Context) {
	var q rangeQuery
	if !bindQuery(c, &q) {
		return
	}
	serve(s, c, func(ctx context.Context) (int64, error) { return s.term.HistoryDealsTotal(ctx, q.From, q.To) })
}

func (s *Server) historyDealsGet(c *gin.Context) {
	var q historyQuery
	if !bindQuery(c, &q) {
		return
	}
	serve(s, c, func(ctx context.Context) ([]mql.Deal, error) {
		return s.term.HistoryDealsGet(ctx, q.From, q.To, q.filter())
	})
}
