package api

import (
	"strings"

	"FinSignal/internal/domain/models"
	domsvc "FinSignal/internal/domain/service"
	"FinSignal/internal/service/ratelimit"
	"FinSignal/internal/usecase"
	xhttp "FinSignal/pkg/http"
	xlogger "FinSignal/pkg/logger"

	"github.com/labstack/echo/v4"
)

func init() {
	xhttp.RegisterValidation("timeframe", func(s string) bool {
		_, err := models.ParseTimeframe(s)
		return err == nil
	}, "%s must be one of 1m, 5m, 15m, 30m, 1h, 4h, 1d")
}

// SignalsHandler serves the latest cycle outcome and on-demand analysis.
type SignalsHandler struct {
	logger *xlogger.Logger
	cycle  domsvc.CycleRunner
	engine domsvc.SignalEngine
	bars   *usecase.BarsUseCase
	limit  *ratelimit.Limiter
}

type Option func(*SignalsHandler)

// WithAnalyzeLimit rate limits POST /api/analyze per client IP.
func WithAnalyzeLimit(l *ratelimit.Limiter) Option {
	return func(h *SignalsHandler) { h.limit = l }
}

func NewSignalsHandler(logger *xlogger.Logger, cycle domsvc.CycleRunner, engine domsvc.SignalEngine, bars *usecase.BarsUseCase, opts ...Option) *SignalsHandler {
	h := &SignalsHandler{logger: logger, cycle: cycle, engine: engine, bars: bars}
	for _, o := range opts {
		o(h)
	}
	return h
}

func (h *SignalsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/cycle", h.Cycle)
	g.GET("/opportunities", h.Opportunities)
	g.GET("/signals", h.Signals)
	g.GET("/attention", h.Attention)
	g.GET("/bars", h.Bars)
	g.POST("/analyze", h.Analyze, h.rateLimit)
}

func (h *SignalsHandler) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.limit != nil && !h.limit.Allow(c.RealIP()) {
			return xhttp.Fail(c, xhttp.TooManyRequests("analyze rate limit exceeded"))
		}
		return next(c)
	}
}

// Cycle returns the summary of the latest finished cycle.
func (h *SignalsHandler) Cycle(c echo.Context) error {
	res := h.cycle.Latest()
	if res == nil {
		return xhttp.Fail(c, xhttp.NotFound("no analysis cycle has finished yet"))
	}
	return xhttp.OK(c, res)
}

// Opportunities lists every aggregated signal of the latest cycle, before filtering.
func (h *SignalsHandler) Opportunities(c echo.Context) error {
	req := &models.OpportunitiesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.Invalid(c, verr)
	}

	rows := []models.AggregatedSignal{}
	if res := h.cycle.Latest(); res != nil {
		for _, s := range res.Opportunities {
			if matchesAction(s.Action, req.Action) {
				rows = append(rows, s)
			}
		}
	}
	return xhttp.List(c, rows)
}

// Signals lists the signals emitted by the latest cycle.
func (h *SignalsHandler) Signals(c echo.Context) error {
	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.Invalid(c, verr)
	}

	rows := []models.AggregatedSignal{}
	if res := h.cycle.Latest(); res != nil {
		want := models.BaseInstrument(req.Instrument)
		for _, s := range res.Emitted {
			if want != "" && models.BaseInstrument(s.Instrument) != want {
				continue
			}
			rows = append(rows, s)
			if len(rows) == req.Limit {
				break
			}
		}
	}
	return xhttp.List(c, rows)
}

// Attention lists open positions flagged by the latest cycle.
func (h *SignalsHandler) Attention(c echo.Context) error {
	rows := []models.AttentionFlag{}
	if res := h.cycle.Latest(); res != nil && res.Attention != nil {
		rows = res.Attention
	}
	return xhttp.List(c, rows)
}

func (h *SignalsHandler) Bars(c echo.Context) error {
	req := &models.BarsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.Invalid(c, verr)
	}
	tf, _ := models.ParseTimeframe(req.Timeframe)

	res, err := h.bars.GetBars(c.Request().Context(), usecase.GetBarsParams{
		Instrument: req.Instrument,
		Timeframe:  tf,
		Limit:      req.Limit,
	})
	if err != nil {
		h.logger.Error("bars usecase error", xlogger.Error(err), xlogger.String("instrument", req.Instrument))
		return xhttp.Fail(c, xhttp.Internal("failed to load bars").WithError(err))
	}
	return xhttp.OK(c, res)
}

// Analyze scores caller-supplied bars without touching the store or positions.
func (h *SignalsHandler) Analyze(c echo.Context) error {
	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.Invalid(c, verr)
	}

	series := make(map[models.Timeframe][]models.Bar, len(req.Bars))
	for label, bars := range req.Bars {
		tf, err := models.ParseTimeframe(string(label))
		if err != nil {
			return xhttp.Fail(c, xhttp.BadRequest("bars", err.Error()))
		}
		if _, dup := series[tf]; dup {
			return xhttp.Fail(c, xhttp.BadRequest("bars", "duplicate timeframe "+tf.String()))
		}
		series[tf] = bars
	}

	sig := h.engine.Analyze(req.Instrument, series)
	if sig == nil {
		err := xhttp.Unprocessable("not enough timeframes with sufficient data for %s", req.Instrument).
			WithError(models.ErrInsufficientTimeframes).
			WithParam("timeframes", len(series))
		return xhttp.Fail(c, err)
	}
	return xhttp.OK(c, sig)
}

func matchesAction(a models.Action, filter string) bool {
	switch strings.ToLower(filter) {
	case "":
		return true
	case "buy":
		return a.IsBuy()
	case "sell":
		return a.IsSell()
	case "hold":
		return a == models.ActionHold
	default:
		return false
	}
}
