package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/defios/defios"
	"github.com/defios/defios/internal/domain"
	"github.com/defios/defios/internal/infra/database"
	"github.com/defios/defios/internal/service"
	"github.com/defios/defios/internal/usecase"
)

// --- mocks ---

type mockIdentityRepo struct {
	routers  map[string]domain.Router
	verified map[string]bool
}

func newMockIdentityRepo() *mockIdentityRepo {
	return &mockIdentityRepo{routers: map[string]domain.Router{}, verified: map[string]bool{}}
}

func (m *mockIdentityRepo) CreateRouter(ctx context.Context, router domain.Router) error {
	if _, ok := m.routers[router.Address]; ok {
		return domain.AlreadyExistsError{Resource: "router"}
	}
	m.routers[router.Address] = router
	return nil
}

func (m *mockIdentityRepo) GetRouter(ctx context.Context, address string) (domain.Router, error) {
	router, ok := m.routers[address]
	if !ok {
		return domain.Router{}, domain.NotFoundError{Resource: "router"}
	}
	return router, nil
}

func (m *mockIdentityRepo) CreateVerifiedUser(ctx context.Context, user domain.VerifiedUser) error {
	m.verified[user.Router+"/"+user.Pubkey] = true
	return nil
}

func (m *mockIdentityRepo) GetVerifiedUser(ctx context.Context, address string) (domain.VerifiedUser, error) {
	return domain.VerifiedUser{}, domain.NotFoundError{Resource: "verified user"}
}

func (m *mockIdentityRepo) IsVerified(ctx context.Context, router, pubkey string) (bool, error) {
	return m.verified[router+"/"+pubkey], nil
}

type mockRepoRepo struct{}

func (m *mockRepoRepo) Create(ctx context.Context, repo domain.Repository, mint domain.Mint, schedule domain.VestingSchedule, vesting domain.VestingAccount, allocation uint64) error {
	return nil
}
func (m *mockRepoRepo) Get(ctx context.Context, address string) (domain.Repository, error) {
	return domain.Repository{}, domain.NotFoundError{Resource: "repository"}
}
func (m *mockRepoRepo) GetVesting(ctx context.Context, repository string) (domain.VestingAccount, error) {
	return domain.VestingAccount{}, domain.NotFoundError{Resource: "vesting account"}
}
func (m *mockRepoRepo) SetDefaultSchedule(ctx context.Context, schedule domain.VestingSchedule) error {
	return nil
}
func (m *mockRepoRepo) GetDefaultSchedule(ctx context.Context) (domain.VestingSchedule, error) {
	return domain.VestingSchedule{}, domain.NotFoundError{Resource: "vesting schedule"}
}
func (m *mockRepoRepo) ChangeSchedule(ctx context.Context, repository, requester string, entries []domain.ScheduleEntry) error {
	return nil
}
func (m *mockRepoRepo) UnlockTokens(ctx context.Context, repository, requester string, now time.Time) (uint64, error) {
	return 0, domain.ErrNothingToRelease
}

type mockIssueRepo struct {
	stakeErr error
}

func (m *mockIssueRepo) Create(ctx context.Context, repository, creator, uri string) (domain.Issue, error) {
	return domain.Issue{Repository: repository, Creator: creator, URI: uri}, nil
}
func (m *mockIssueRepo) Get(ctx context.Context, address string) (domain.Issue, error) {
	return domain.Issue{}, domain.NotFoundError{Resource: "issue"}
}
func (m *mockIssueRepo) Stake(ctx context.Context, issue, staker string, amount uint64) (domain.Staker, error) {
	if m.stakeErr != nil {
		return domain.Staker{}, m.stakeErr
	}
	return domain.Staker{Target: issue, Staker: staker, Amount: amount}, nil
}
func (m *mockIssueRepo) Unstake(ctx context.Context, issue, staker string) (uint64, error) {
	return 0, domain.ErrNoStakeFound
}

type mockPullRepo struct{}

func (m *mockPullRepo) CreateCommit(ctx context.Context, commit domain.Commit) error { return nil }
func (m *mockPullRepo) GetCommit(ctx context.Context, address string) (domain.Commit, error) {
	return domain.Commit{}, domain.NotFoundError{Resource: "commit"}
}
func (m *mockPullRepo) Create(ctx context.Context, pr domain.PullRequest, commits []string) error {
	return nil
}
func (m *mockPullRepo) Get(ctx context.Context, address string) (domain.PullRequest, error) {
	return domain.PullRequest{}, domain.NotFoundError{Resource: "pull request"}
}
func (m *mockPullRepo) AttachCommit(ctx context.Context, pull, commit, requester string) error {
	return nil
}
func (m *mockPullRepo) Stake(ctx context.Context, pull, staker string, amount uint64) (domain.Staker, error) {
	return domain.Staker{}, nil
}
func (m *mockPullRepo) Unstake(ctx context.Context, pull, staker string) (uint64, error) {
	return 0, nil
}
func (m *mockPullRepo) Accept(ctx context.Context, pull, repository, requester string) error {
	return domain.ErrNotRepositoryCreator
}
func (m *mockPullRepo) ClaimReward(ctx context.Context, pull, requester string) (domain.RewardBreakdown, error) {
	return domain.RewardBreakdown{}, domain.ErrAlreadyClaimed
}

type mockRoadmapRepo struct{}

func (m *mockRoadmapRepo) CreateRoadmap(ctx context.Context, roadmap domain.Roadmap) error {
	return nil
}
func (m *mockRoadmapRepo) GetRoadmap(ctx context.Context, address string) (domain.Roadmap, error) {
	return domain.Roadmap{}, domain.NotFoundError{Resource: "roadmap"}
}
func (m *mockRoadmapRepo) CreateObjective(ctx context.Context, objective domain.Objective) error {
	return nil
}
func (m *mockRoadmapRepo) GetObjective(ctx context.Context, address string) (domain.Objective, error) {
	return domain.Objective{}, domain.NotFoundError{Resource: "objective"}
}
func (m *mockRoadmapRepo) LinkObjective(ctx context.Context, objective, parent, requester string) error {
	return nil
}
func (m *mockRoadmapRepo) Grant(ctx context.Context, objective, grantee string, amount uint64, uri string) (domain.Grant, error) {
	return domain.Grant{}, nil
}
func (m *mockRoadmapRepo) Disperse(ctx context.Context, objective, grantee, requester string, amount uint64) error {
	return nil
}

type mockMarketRepo struct{}

func (m *mockMarketRepo) CreatePool(ctx context.Context, pool domain.CommunalPool) error { return nil }
func (m *mockMarketRepo) GetPool(ctx context.Context, mint string) (domain.CommunalPool, error) {
	return domain.CommunalPool{}, domain.NotFoundError{Resource: "communal pool"}
}
func (m *mockMarketRepo) Buy(ctx context.Context, mint, trader string, amountIn, minOut uint64) (uint64, error) {
	return 0, domain.ErrSlippageExceeded
}
func (m *mockMarketRepo) Sell(ctx context.Context, mint, trader string, amountIn, minOut uint64) (uint64, error) {
	return 0, domain.ErrSlippageExceeded
}

type mockTokenRepo struct{}

func (m *mockTokenRepo) GetAccount(ctx context.Context, address string) (domain.TokenAccount, error) {
	return domain.TokenAccount{}, domain.NotFoundError{Resource: "token account"}
}
func (m *mockTokenRepo) GetBalance(ctx context.Context, address string) (uint64, error) {
	return 0, domain.NotFoundError{Resource: "token account"}
}

// --- setup ---

const testRequester = "dosbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"

func setup(issues *mockIssueRepo) *echo.Echo {
	conf := domain.Config{
		FQDN:      "node.example.com",
		QuoteMint: "dpa1111111111111111111111111111111111111111",
		Authority: defios.AuthorityAddress(),
	}

	identity := newMockIdentityRepo()
	h := NewHandler(
		conf,
		usecase.NewIdentityUsecase(identity),
		usecase.NewRepositoryUsecase(&mockRepoRepo{}, identity, conf.Authority),
		usecase.NewIssueUsecase(issues, identity),
		usecase.NewPullRequestUsecase(&mockPullRepo{}, issues, identity),
		usecase.NewRoadmapUsecase(&mockRoadmapRepo{}, identity),
		usecase.NewMarketUsecase(&mockMarketRepo{}, conf.QuoteMint, conf.Authority),
		&mockTokenRepo{},
		service.NewSignalService(database.NewRedis("localhost:6379", "", 0)),
	)

	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func signed(req *http.Request) *http.Request {
	ctx := context.WithValue(req.Context(), domain.RequesterIdCtxKey, testRequester)
	return req.WithContext(ctx)
}

// --- tests ---

func TestHandleWellKnown(t *testing.T) {
	e := setup(&mockIssueRepo{})

	req := httptest.NewRequest(http.MethodGet, "/.well-known/defios", nil)
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}

	var wk defios.WellKnownDefios
	if err := json.Unmarshal(res.Body.Bytes(), &wk); err != nil {
		t.Fatalf("failed to decode well-known: %v", err)
	}
	if wk.Domain != "node.example.com" {
		t.Fatalf("unexpected domain: %s", wk.Domain)
	}
}

func TestCreateRouterRequiresSignature(t *testing.T) {
	e := setup(&mockIssueRepo{})

	body, _ := json.Marshal(defios.CreateRouterRequest{SigningDomain: "github.com", SignatureVersion: 1})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/router", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unsigned request, got %d", res.Code)
	}
}

func TestCreateRouter(t *testing.T) {
	e := setup(&mockIssueRepo{})

	body, _ := json.Marshal(defios.CreateRouterRequest{SigningDomain: "github.com", SignatureVersion: 1})
	req := signed(httptest.NewRequest(http.MethodPost, "/api/v1/router", bytes.NewReader(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", res.Code, res.Body.String())
	}

	var router domain.Router
	if err := json.Unmarshal(res.Body.Bytes(), &router); err != nil {
		t.Fatalf("failed to decode router: %v", err)
	}
	expected := defios.RouterAddress("github.com", 1, testRequester)
	if router.Address != expected {
		t.Fatalf("expected derived address %s, got %s", expected, router.Address)
	}
}

func TestGetIssueNotFound(t *testing.T) {
	e := setup(&mockIssueRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/issue/dpa0000000000000000000000000000000000000000", nil)
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", res.Code)
	}
}

func TestStakeIssueErrorMapping(t *testing.T) {
	e := setup(&mockIssueRepo{stakeErr: domain.ErrInsufficientFunds})

	body, _ := json.Marshal(defios.StakeRequest{Amount: 100})
	req := signed(httptest.NewRequest(http.MethodPost, "/api/v1/issue/dpa0000000000000000000000000000000000000000/stake", bytes.NewReader(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)

	if res.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for insufficient funds, got %d", res.Code)
	}
}

func TestClaimRewardAlreadyClaimed(t *testing.T) {
	e := setup(&mockIssueRepo{})

	req := signed(httptest.NewRequest(http.MethodPost, "/api/v1/pull/dpa0000000000000000000000000000000000000000/claim", nil))
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)

	if res.Code != http.StatusConflict {
		t.Fatalf("expected 409 for already claimed reward, got %d", res.Code)
	}
}

func TestBuySlippageMapping(t *testing.T) {
	e := setup(&mockIssueRepo{})

	body, _ := json.Marshal(defios.SwapRequest{AmountIn: 100, MinOut: 1000})
	req := signed(httptest.NewRequest(http.MethodPost, "/api/v1/market/dpa2222222222222222222222222222222222222222/buy", bytes.NewReader(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)

	if res.Code != http.StatusConflict {
		t.Fatalf("expected 409 for slippage, got %d", res.Code)
	}
}
