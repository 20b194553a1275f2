package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/defios/defios"
	"github.com/defios/defios/internal/domain"
	"github.com/defios/defios/internal/present/rest/presenter"
	"github.com/defios/defios/internal/service"
	"github.com/defios/defios/internal/usecase"
)

type Handler struct {
	config   domain.Config
	identity *usecase.IdentityUsecase
	repo     *usecase.RepositoryUsecase
	issue    *usecase.IssueUsecase
	pull     *usecase.PullRequestUsecase
	roadmap  *usecase.RoadmapUsecase
	market   *usecase.MarketUsecase
	token    usecase.TokenRepository
	signal   *service.SignalService
}

func NewHandler(
	config domain.Config,
	identity *usecase.IdentityUsecase,
	repo *usecase.RepositoryUsecase,
	issue *usecase.IssueUsecase,
	pull *usecase.PullRequestUsecase,
	roadmap *usecase.RoadmapUsecase,
	market *usecase.MarketUsecase,
	token usecase.TokenRepository,
	signal *service.SignalService,
) *Handler {
	return &Handler{
		config:   config,
		identity: identity,
		repo:     repo,
		issue:    issue,
		pull:     pull,
		roadmap:  roadmap,
		market:   market,
		token:    token,
		signal:   signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/.well-known/defios", h.handleWellKnown)

	e.POST("/api/v1/router", h.handleCreateRouter)
	e.GET("/api/v1/router/:address", h.handleGetRouter)
	e.POST("/api/v1/router/:address/verify", h.handleAddVerifiedUser)
	e.GET("/api/v1/user/:address", h.handleGetVerifiedUser)

	e.POST("/api/v1/repository", h.handleCreateRepository)
	e.GET("/api/v1/repository/:address", h.handleGetRepository)
	e.GET("/api/v1/repository/:address/vesting", h.handleGetVesting)
	e.POST("/api/v1/repository/:address/schedule", h.handleChangeSchedule)
	e.POST("/api/v1/repository/:address/unlock", h.handleUnlockTokens)
	e.POST("/api/v1/repository/:address/issue", h.handleAddIssue)
	e.POST("/api/v1/repository/:address/roadmap", h.handleAddRoadmap)
	e.POST("/api/v1/schedule/default", h.handleSetDefaultSchedule)

	e.GET("/api/v1/issue/:address", h.handleGetIssue)
	e.POST("/api/v1/issue/:address/stake", h.handleStakeIssue)
	e.POST("/api/v1/issue/:address/unstake", h.handleUnstakeIssue)
	e.POST("/api/v1/issue/:address/commit", h.handleAddCommit)
	e.POST("/api/v1/issue/:address/pull", h.handleAddPullRequest)
	e.GET("/api/v1/commit/:address", h.handleGetCommit)

	e.GET("/api/v1/pull/:address", h.handleGetPullRequest)
	e.POST("/api/v1/pull/:address/commit", h.handleAttachCommit)
	e.POST("/api/v1/pull/:address/stake", h.handleStakePullRequest)
	e.POST("/api/v1/pull/:address/unstake", h.handleUnstakePullRequest)
	e.POST("/api/v1/pull/:address/accept", h.handleAcceptPullRequest)
	e.POST("/api/v1/pull/:address/claim", h.handleClaimReward)

	e.GET("/api/v1/roadmap/:address", h.handleGetRoadmap)
	e.POST("/api/v1/roadmap/:address/objective", h.handleAddObjective)
	e.GET("/api/v1/objective/:address", h.handleGetObjective)
	e.POST("/api/v1/objective/:address/link", h.handleLinkObjective)
	e.POST("/api/v1/objective/:address/grant", h.handleGrant)
	e.POST("/api/v1/objective/:address/disperse", h.handleDisperse)

	e.POST("/api/v1/market/:mint/pool", h.handleCreatePool)
	e.GET("/api/v1/market/:mint", h.handleGetPool)
	e.POST("/api/v1/market/:mint/buy", h.handleBuy)
	e.POST("/api/v1/market/:mint/sell", h.handleSell)

	e.GET("/api/v1/token/:address", h.handleGetTokenAccount)

	e.GET("/realtime", h.handleRealtime)
}

// requester pulls the authenticated wallet address set by the auth
// middleware. Empty means the request carried no valid token.
func requester(c echo.Context) string {
	requester, _ := c.Request().Context().Value(domain.RequesterIdCtxKey).(string)
	return requester
}

// emit publishes an instruction event best-effort; the state transition has
// already committed.
func (h *Handler) emit(c echo.Context, eventType, address, signer string, amount uint64) {
	err := h.signal.Publish(c.Request().Context(), defios.Event{
		Type:      eventType,
		Address:   address,
		Signer:    signer,
		Amount:    amount,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		slog.Error(
			"failed to publish event",
			slog.String("error", err.Error()),
			slog.String("type", eventType),
			slog.String("module", "rest"),
		)
	}
}

func (h *Handler) handleWellKnown(c echo.Context) error {
	wellknown := defios.WellKnownDefios{
		Version:   "1.0",
		Domain:    h.config.FQDN,
		Authority: h.config.Authority,
		Endpoints: map[string]string{
			"org.defios.router":     "/api/v1/router",
			"org.defios.repository": "/api/v1/repository",
			"org.defios.issue":      "/api/v1/issue/{address}",
			"org.defios.pull":       "/api/v1/pull/{address}",
			"org.defios.roadmap":    "/api/v1/roadmap/{address}",
			"org.defios.market":     "/api/v1/market/{mint}",
			"org.defios.realtime":   "/realtime",
		},
	}
	return presenter.OK(c, wellknown)
}

func (h *Handler) handleCreateRouter(c echo.Context) error {
	ctx := c.Request().Context()
	signer := requester(c)
	if signer == "" {
		return presenter.Unauthorized(c, "signature required")
	}

	var req defios.CreateRouterRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	router, err := h.identity.CreateRouter(ctx, signer, req.SigningDomain, req.SignatureVersion)
	if err != nil {
		return presenter.Error(c, err)
	}
	h.emit(c, defios.EventRouterCreated, router.Address, signer, 0)
	return presenter.OK(c, router)
}

func (h *Handler) handleGetRouter(c echo.Context) error {
	router, err := h.identity.GetRouter(c.Request().Context(), c.Param("address"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, router)
}

func (h *Handler) handleAddVerifiedUser(c echo.Context) error {
	ctx := c.Request().Context()
	signer := requester(c)
	if signer == "" {
		return presenter.Unauthorized(c, "signature required")
	}

	var req defios.AddVerifiedUserRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	user, err := h.identity.AddVerifiedUser(ctx, signer, c.Param("address"), req)
	if err != nil {
		return presenter.Error(c, err)
	}
	h.emit(c, defios.EventUserVerified, user.Address, signer, 0)
	return presenter.OK(c, user)
}

func (h *Handler) handleGetVerifiedUser(c echo.Context) error {
	user, err := h.identity.GetVerifiedUser(c.Request().Context(), c.Param("address"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, user)
}

func (h *Handler) handleCreateRepository(c echo.Context) error {
	ctx := c.Request().Context()
	signer := requester(c)
	if signer == "" {
		return presenter.Unauthorized(c, "signature required")
	}

	var req defios.CreateRepositoryRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}
	if req.Token == nil && req.Mint == "" {
		return presenter.BadRequestMessage(c, "either token params or an imported mint is required")
	}

	repo, err := h.repo.Create(ctx, signer, req)
	if err != nil {
		return presenter.Error(c, err)
	}
	h.emit(c, defios.EventRepositoryCreated, repo.Address, signer, 0)
	return presenter.OK(c, repo)
}

func (h *Handler) handleGetRepository(c echo.Context) error {
	repo, err := h.repo.Get(c.Request().Context(), c.Param("address"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, repo)
}

func (h *Handler) handleGetVesting(c echo.Context) error {
	vesting, err := h.repo.GetVesting(c.Request().Context(), c.Param("address"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, vesting)
}

func scheduleFromRequest(req defios.ScheduleRequest) []domain.ScheduleEntry {
	entries := make([]domain.ScheduleEntry, 0, len(req.Entries))
	for _, entry := range req.Entries {
		entries = append(entries, domain.ScheduleEntry{
			ReleaseTime: time.Unix(entry.ReleaseTime, 0).UTC(),
			Amount:      entry.Amount,
		})
	}
	return entries
}

func (h *Handler) handleSetDefaultSchedule(c echo.Context) error {
	ctx := c.Request().Context()
	signer := requester(c)
	if signer == "" {
		return presenter.Unauthorized(c, "signature required")
	}

	var req defios.ScheduleRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	if err := h.repo.SetDefaultSchedule(ctx, signer, scheduleFromRequest(req)); err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleChangeSchedule(c echo.Context) error {
	ctx := c.Request().Context()
	signer := requester(c)
	if signer == "" {
		return presenter.Unauthorized(c, "signature required")
	}

	var req defios.ScheduleRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	if err := h.repo.ChangeSchedule(ctx, signer, c.Param("address"), scheduleFromRequest(req)); err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleUnlockTokens(c echo.Context) error {
	ctx := c.Request().Context()
	signer := requester(c)
	if signer == "" {
		return presenter.Unauthorized(c, "signature required")
	}

	released, err := h.repo.UnlockTokens(ctx, signer, c.Param("address"))
	if err != nil {
		return presenter.Error(c, err)
	}
	h.emit(c, defios.EventTokensUnlocked, c.Param("address"), signer, released)
	return presenter.OK(c, echo.Map{"released": released})
}

func (h *Handler) handleAddIssue(c echo.Context) error {
	ctx := c.Request().Context()
	signer := requester(c)
	if signer == "" {
		return presenter.Unauthorized(c, "signature required")
	}

	var req defios.AddIssueRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	issue, err := h.issue.Add(ctx, signer, req.Router, c.Param("address"), req.URI)
	if err != nil {
		return presenter.Error(c, err)
	}
	h.emit(c, defios.EventIssueCreated, issue.Address, signer, 0)
	return presenter.OK(c, issue)
}

func (h *Handler) handleGetIssue(c echo.Context) error {
	issue, err := h.issue.Get(c.Request().Context(), c.Param("address"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, issue)
}

func (h *Handler) handleStakeIssue(c echo.Context) error {
	ctx := c.Request().Context()
	signer := requester(c)
	if signer == "" {
		return presenter.Unauthorized(c, "signature required")
	}

	var req defios.StakeRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	stake, err := h.issue.Stake(ctx, signer, c.Param("address"), req.Amount)
	if err != nil {
		return presenter.Error(c, err)
	}
	h.emit(c, defios.EventIssueStaked, c.Param("address"), signer, req.Amount)
	return presenter.OK(c, stake)
}

func (h *Handler) handleUnstakeIssue(c echo.Context) error {
	ctx := c.Request().Context()
	signer := requester(c)
	if signer == "" {
		return presenter.Unauthorized(c, "signature required")
	}

	refunded, err := h.issue.Unstake(ctx, signer, c.Param("address"))
	if err != nil {
		return presenter.Error(c, err)
	}
	h.emit(c, defios.EventIssueUnstaked, c.Param("address"), signer, refunded)
	return presenter.OK(c, echo.Map{"refunded": refunded})
}

func (h *Handler) handleAddCommit(c echo.Context) error {
	ctx := c.Request().Context()
	signer := requester(c)
	if signer == "" {
		return presenter.Unauthorized(c, "signature required")
	}

	var req defios.AddCommitRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	commit, err := h.pull.AddCommit(ctx, signer, req.Router, c.Param("address"), req)
	if err != nil {
		return presenter.Error(c, err)
	}
	h.emit(c, defios.EventCommitCreated, commit.Address, signer, 0)
	return presenter.OK(c, commit)
}

func (h *Handler) handleGetCommit(c echo.Context) error {
	commit, err := h.pull.GetCommit(c.Request().Context(), c.Param("address"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, commit)
}

func (h *Handler) handleAddPullRequest(c echo.Context) error {
	ctx := c.Request().Context()
	signer := requester(c)
	if signer == "" {
		return presenter.Unauthorized(c, "signature required")
	}

	var req defios.AddPullRequestRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	pr, err := h.pull.Add(ctx, signer, req.Router, c.Param("address"), req)
	if err != nil {
		return presenter.Error(c, err)
	}
	h.emit(c, defios.EventPullCreated, pr.Address, signer, 0)
	return presenter.OK(c, pr)
}

func (h *Handler) handleGetPullRequest(c echo.Context) error {
	pr, err := h.pull.Get(c.Request().Context(), c.Param("address"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, pr)
}

func (h *Handler) handleAttachCommit(c echo.Context) error {
	ctx := c.Request().Context()
	signer := requester(c)
	if signer == "" {
		return presenter.Unauthorized(c, "signature required")
	}

	var req defios.AttachCommitRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	if err := h.pull.AttachCommit(ctx, signer, req.Router, c.Param("address"), req.Commit); err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleStakePullRequest(c echo.Context) error {
	ctx := c.Request().Context()
	signer := requester(c)
	if signer == "" {
		return presenter.Unauthorized(c, "signature required")
	}

	var req defios.StakeRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	stake, err := h.pull.Stake(ctx, signer, c.Param("address"), req.Amount)
	if err != nil {
		return presenter.Error(c, err)
	}
	h.emit(c, defios.EventPullStaked, c.Param("address"), signer, req.Amount)
	return presenter.OK(c, stake)
}

func (h *Handler) handleUnstakePullRequest(c echo.Context) error {
	ctx := c.Request().Context()
	signer := requester(c)
	if signer == "" {
		return presenter.Unauthorized(c, "signature required")
	}

	refunded, err := h.pull.Unstake(ctx, signer, c.Param("address"))
	if err != nil {
		return presenter.Error(c, err)
	}
	h.emit(c, defios.EventPullUnstaked, c.Param("address"), signer, refunded)
	return presenter.OK(c, echo.Map{"refunded": refunded})
}

func (h *Handler) handleAcceptPullRequest(c echo.Context) error {
	ctx := c.Request().Context()
	signer := requester(c)
	if signer == "" {
		return presenter.Unauthorized(c, "signature required")
	}

	var req defios.AcceptPullRequestRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	if err := h.pull.Accept(ctx, signer, c.Param("address"), req.Repository); err != nil {
		return presenter.Error(c, err)
	}
	h.emit(c, defios.EventPullAccepted, c.Param("address"), signer, 0)
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleClaimReward(c echo.Context) error {
	ctx := c.Request().Context()
	signer := requester(c)
	if signer == "" {
		return presenter.Unauthorized(c, "signature required")
	}

	breakdown, err := h.pull.ClaimReward(ctx, signer, c.Param("address"))
	if err != nil {
		return presenter.Error(c, err)
	}
	h.emit(c, defios.EventRewardClaimed, c.Param("address"), signer, breakdown.Principal)
	return presenter.OK(c, breakdown)
}

func (h *Handler) handleAddRoadmap(c echo.Context) error {
	ctx := c.Request().Context()
	signer := requester(c)
	if signer == "" {
		return presenter.Unauthorized(c, "signature required")
	}

	var req defios.AddRoadmapRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	roadmap, err := h.roadmap.AddRoadmap(ctx, signer, c.Param("address"), req)
	if err != nil {
		return presenter.Error(c, err)
	}
	h.emit(c, defios.EventRoadmapCreated, roadmap.Address, signer, 0)
	return presenter.OK(c, roadmap)
}

func (h *Handler) handleGetRoadmap(c echo.Context) error {
	roadmap, err := h.roadmap.GetRoadmap(c.Request().Context(), c.Param("address"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, roadmap)
}

func (h *Handler) handleAddObjective(c echo.Context) error {
	ctx := c.Request().Context()
	signer := requester(c)
	if signer == "" {
		return presenter.Unauthorized(c, "signature required")
	}

	var req defios.AddObjectiveRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	objective, err := h.roadmap.AddObjective(ctx, signer, c.Param("address"), req)
	if err != nil {
		return presenter.Error(c, err)
	}
	h.emit(c, defios.EventObjectiveCreated, objective.Address, signer, 0)
	return presenter.OK(c, objective)
}

func (h *Handler) handleGetObjective(c echo.Context) error {
	objective, err := h.roadmap.GetObjective(c.Request().Context(), c.Param("address"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, objective)
}

func (h *Handler) handleLinkObjective(c echo.Context) error {
	ctx := c.Request().Context()
	signer := requester(c)
	if signer == "" {
		return presenter.Unauthorized(c, "signature required")
	}

	var req defios.LinkObjectiveRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	if err := h.roadmap.LinkObjective(ctx, signer, c.Param("address"), req.Parent); err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleGrant(c echo.Context) error {
	ctx := c.Request().Context()
	signer := requester(c)
	if signer == "" {
		return presenter.Unauthorized(c, "signature required")
	}

	var req defios.GrantRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	grant, err := h.roadmap.Grant(ctx, signer, c.Param("address"), req)
	if err != nil {
		return presenter.Error(c, err)
	}
	h.emit(c, defios.EventGrantStaked, grant.Address, signer, req.Amount)
	return presenter.OK(c, grant)
}

func (h *Handler) handleDisperse(c echo.Context) error {
	ctx := c.Request().Context()
	signer := requester(c)
	if signer == "" {
		return presenter.Unauthorized(c, "signature required")
	}

	var req defios.DisperseRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	if err := h.roadmap.Disperse(ctx, signer, c.Param("address"), req.Grantee, req.Amount); err != nil {
		return presenter.Error(c, err)
	}
	h.emit(c, defios.EventGrantDispersed, c.Param("address"), signer, req.Amount)
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleCreatePool(c echo.Context) error {
	ctx := c.Request().Context()
	signer := requester(c)
	if signer == "" {
		return presenter.Unauthorized(c, "signature required")
	}

	pool, err := h.market.CreatePool(ctx, signer, c.Param("mint"))
	if err != nil {
		return presenter.Error(c, err)
	}
	h.emit(c, defios.EventPoolCreated, pool.Address, signer, 0)
	return presenter.OK(c, pool)
}

func (h *Handler) handleGetPool(c echo.Context) error {
	pool, err := h.market.GetPool(c.Request().Context(), c.Param("mint"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, pool)
}

func (h *Handler) handleBuy(c echo.Context) error {
	ctx := c.Request().Context()
	signer := requester(c)
	if signer == "" {
		return presenter.Unauthorized(c, "signature required")
	}

	var req defios.SwapRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	out, err := h.market.Buy(ctx, signer, c.Param("mint"), req.AmountIn, req.MinOut)
	if err != nil {
		return presenter.Error(c, err)
	}
	h.emit(c, defios.EventTokensBought, c.Param("mint"), signer, out)
	return presenter.OK(c, defios.SwapResponse{AmountOut: out})
}

func (h *Handler) handleSell(c echo.Context) error {
	ctx := c.Request().Context()
	signer := requester(c)
	if signer == "" {
		return presenter.Unauthorized(c, "signature required")
	}

	var req defios.SwapRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	out, err := h.market.Sell(ctx, signer, c.Param("mint"), req.AmountIn, req.MinOut)
	if err != nil {
		return presenter.Error(c, err)
	}
	h.emit(c, defios.EventTokensSold, c.Param("mint"), signer, out)
	return presenter.OK(c, defios.SwapResponse{AmountOut: out})
}

func (h *Handler) handleGetTokenAccount(c echo.Context) error {
	account, err := h.token.GetAccount(c.Request().Context(), c.Param("address"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, account)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) handleRealtime(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer ws.Close()

	ctx := c.Request().Context()

	sub := h.signal.Subscribe(ctx)
	defer sub.Close()

	quit := make(chan struct{})

	go func() {
		defer close(quit)
		for {
			// Inbound traffic is heartbeats only; any read error means
			// the peer went away.
			if _, _, err := ws.ReadMessage(); err != nil {
				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.DebugContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}
				return
			}
		}
	}()

	events := sub.Channel()
	for {
		select {
		case <-quit:
			return nil
		case <-ctx.Done():
			return nil
		case message, ok := <-events:
			if !ok {
				return nil
			}
			err := ws.WriteMessage(websocket.TextMessage, []byte(message.Payload))
			if err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}
