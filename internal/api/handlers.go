package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"offgrid-lcoe/internal/config"
	"offgrid-lcoe/internal/dispatch"
	"offgrid-lcoe/internal/ensemble"
	"offgrid-lcoe/internal/proforma"
	"offgrid-lcoe/internal/solver"
	"offgrid-lcoe/internal/types"
	"offgrid-lcoe/internal/weather"
)

// Handler holds the shared, long-lived collaborators: a single
// memoizing weather provider shared by every request, matching the
// teacher's pattern of constructing one GridStatusClient/cache pair at
// startup and passing it into every handler (cmd/api/main.go).
type Handler struct {
	Weather *weather.MemoCache
}

// NewHandler wraps provider in a process-wide memoizing cache.
func NewHandler(provider weather.Provider) *Handler {
	return &Handler{Weather: weather.NewMemoCache(provider)}
}

// RunLCOE handles POST /api/v1/lcoe.
func (h *Handler) RunLCOE(c *gin.Context) {
	var req LCOERequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, &types.ConfigError{Field: "body", Msg: err.Error()})
		return
	}

	cfg := req.toRunConfig()
	if err := cfg.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}

	resp, err := h.runOne(cfg)
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) runOne(cfg config.RunConfig) (LCOEResponse, error) {
	sizing, err := cfg.ToSizing()
	if err != nil {
		return LCOEResponse{}, err
	}

	pv, err := h.Weather.FetchNormalizedPV(cfg.ToSite())
	if err != nil {
		return LCOEResponse{}, err
	}

	out, err := dispatch.Run(dispatch.Input{PV: pv, Sizing: sizing})
	if err != nil {
		return LCOEResponse{}, err
	}

	in := proforma.Input{
		Annual:    out.Annual,
		Sizing:    sizing,
		Capex:     cfg.ToCapexRates(),
		OM:        cfg.ToOMRates(),
		Financial: cfg.ToFinancialAssumptions(),
	}
	sol, err := solver.SolveWith(in)
	if _, ok := err.(*types.SolverNonConvergence); err != nil && !ok {
		return LCOEResponse{}, err
	}

	return LCOEResponse{
		LCOE:       sol.LCOE,
		Converged:  sol.Converged,
		Iterations: sol.Iterations,
		ProForma:   sol.Table,
		Annual:     out.Annual,
		SampleWeek: out.SampleWeek[:],
	}, nil
}

// RunEnsemble handles POST /api/v1/ensemble.
func (h *Handler) RunEnsemble(c *gin.Context) {
	var req EnsembleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, &types.ConfigError{Field: "body", Msg: err.Error()})
		return
	}

	cases, rates, err := h.toEnsembleInput(req)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}

	results, err := ensemble.Run(cases, h.Weather, rates, req.Concurrency, nil)
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}

	c.JSON(http.StatusOK, EnsembleResponse{
		Raw:    toEnsembleResults(results),
		Pareto: toEnsembleResults(ensemble.ParetoFrontier(results)),
	})
}

// StreamEnsemble handles GET /api/v1/ensemble/stream by upgrading
// to a websocket, then reading one EnsembleRequest JSON message and
// pushing one Progress JSON message per completed case (mirrors the
// live-push pattern the pack's akwiatkowski/devskill repos use for
// gorilla/websocket, generalized from telemetry push to sweep progress).
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (h *Handler) StreamEnsemble(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	var req EnsembleRequest
	if err := conn.ReadJSON(&req); err != nil {
		return
	}

	cases, rates, err := h.toEnsembleInput(req)
	if err != nil {
		conn.WriteJSON(gin.H{"error": err.Error()})
		return
	}

	progress := make(chan ensemble.Progress)
	done := make(chan error, 1)
	go func() {
		_, runErr := ensemble.Run(cases, h.Weather, rates, req.Concurrency, progress)
		done <- runErr
	}()

	for p := range progress {
		msg := gin.H{"completed": p.Completed, "total": p.Total}
		if p.Err == nil {
			msg["result"] = toEnsembleResult(p.Result)
		} else {
			msg["error"] = p.Err.Error()
		}
		if err := conn.WriteJSON(msg); err != nil {
			return
		}
	}
	if err := <-done; err != nil {
		conn.WriteJSON(gin.H{"fatal": err.Error()})
	}
}

func (h *Handler) toEnsembleInput(req EnsembleRequest) ([]ensemble.Case, ensemble.Rates, error) {
	base := config.MergeConfig(config.DefaultRunConfig(), config.RunConfig{
		Capex:     req.Capex,
		OM:        req.OM,
		Financial: req.Financial,
	})

	rates := ensemble.Rates{
		Capex:     base.ToCapexRates(),
		OM:        base.ToOMRates(),
		Financial: base.ToFinancialAssumptions(),
	}

	cases := make([]ensemble.Case, 0, len(req.Cases))
	for _, rc := range req.Cases {
		cfg := config.MergeConfig(config.DefaultRunConfig(), config.RunConfig{Location: rc.Location, Sizing: rc.Sizing})
		sizing, err := cfg.ToSizing()
		if err != nil {
			return nil, ensemble.Rates{}, err
		}
		cases = append(cases, ensemble.Case{Site: cfg.ToSite(), Sizing: sizing})
	}
	return cases, rates, nil
}

func toEnsembleResults(in []ensemble.CaseResult) []EnsembleResult {
	out := make([]EnsembleResult, len(in))
	for i, r := range in {
		out[i] = toEnsembleResult(r)
	}
	return out
}

func toEnsembleResult(r ensemble.CaseResult) EnsembleResult {
	return EnsembleResult{
		Latitude:     r.Site.Latitude,
		Longitude:    r.Site.Longitude,
		SolarDCMW:    r.Sizing.SolarDCMW,
		BESSPowerMW:  r.Sizing.BESSPowerMW,
		GeneratorMW:  r.Sizing.GeneratorMW,
		LoadMW:       r.Sizing.LoadMW,
		LCOE:         r.LCOE,
		RenewablePct: r.RenewablePct,
		Converged:    r.Converged,
	}
}

func writeError(c *gin.Context, status int, err error) {
	kind := "UnknownError"
	if ke, ok := err.(interface{ Kind() types.ErrorKind }); ok {
		kind = ke.Kind().String()
	}
	c.JSON(status, ErrorResponse{Error: ErrorDetail{Kind: kind, Message: err.Error()}})
}

func statusFor(err error) int {
	ke, ok := err.(interface{ Kind() types.ErrorKind })
	if !ok {
		return http.StatusInternalServerError
	}
	switch ke.Kind() {
	case types.KindConfigError, types.KindDataNotFound:
		return http.StatusBadRequest
	case types.KindWeatherError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
