package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/defios/defios"
	"github.com/defios/defios/internal/domain"
	"github.com/defios/defios/jwt"
)

const (
	defaultTimeout = 3 * time.Second
	tokenLifetime  = 5 * time.Minute
)

// Client talks to one node's instruction surface. Immutable accounts
// (commits, verified users) are cached locally; everything else is fetched
// fresh.
type Client struct {
	client     *http.Client
	cache      *cache.Cache
	host       string
	address    string
	privatekey string
}

// New builds a client for host. privatekey may be empty for read-only use;
// mutations then fail with 401.
func New(host, privatekey string) (*Client, error) {
	c := &Client{
		client:     &http.Client{Timeout: defaultTimeout},
		cache:      cache.New(10*time.Minute, 15*time.Minute),
		host:       host,
		privatekey: privatekey,
	}
	if privatekey != "" {
		address, err := defios.PrivKeyToAddr(privatekey)
		if err != nil {
			return nil, err
		}
		c.address = address
	}
	return c, nil
}

// Address returns the wallet address this client signs as.
func (c *Client) Address() string {
	return c.address
}

func (c *Client) token() (string, error) {
	exp := time.Now().Add(tokenLifetime).Unix()
	return jwt.Create(jwt.Claims{
		Issuer:         c.address,
		Audience:       c.host,
		Subject:        "defios",
		ExpirationTime: strconv.FormatInt(exp, 10),
		IssuedAt:       strconv.FormatInt(time.Now().Unix(), 10),
	}, c.privatekey)
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, "https://"+c.host+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if method != http.MethodGet && c.privatekey != "" {
		token, err := c.token()
		if err != nil {
			return fmt.Errorf("failed to create token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiError struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiError)
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, apiError.Error)
	}

	if result == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

func (c *Client) GetWellKnown(ctx context.Context) (defios.WellKnownDefios, error) {
	var wk defios.WellKnownDefios
	err := c.do(ctx, http.MethodGet, "/.well-known/defios", nil, &wk)
	return wk, err
}

func (c *Client) CreateRouter(ctx context.Context, req defios.CreateRouterRequest) (domain.Router, error) {
	var router domain.Router
	err := c.do(ctx, http.MethodPost, "/api/v1/router", req, &router)
	return router, err
}

func (c *Client) GetRouter(ctx context.Context, address string) (domain.Router, error) {
	var router domain.Router
	err := c.do(ctx, http.MethodGet, "/api/v1/router/"+address, nil, &router)
	return router, err
}

func (c *Client) AddVerifiedUser(ctx context.Context, router string, req defios.AddVerifiedUserRequest) (domain.VerifiedUser, error) {
	var user domain.VerifiedUser
	err := c.do(ctx, http.MethodPost, "/api/v1/router/"+router+"/verify", req, &user)
	return user, err
}

// GetVerifiedUser is cached: verified-user accounts are immutable once
// created.
func (c *Client) GetVerifiedUser(ctx context.Context, address string) (domain.VerifiedUser, error) {
	cacheKey := "user:" + address
	if x, found := c.cache.Get(cacheKey); found {
		return x.(domain.VerifiedUser), nil
	}

	var user domain.VerifiedUser
	err := c.do(ctx, http.MethodGet, "/api/v1/user/"+address, nil, &user)
	if err != nil {
		return domain.VerifiedUser{}, err
	}
	c.cache.Set(cacheKey, user, cache.DefaultExpiration)
	return user, nil
}

func (c *Client) CreateRepository(ctx context.Context, req defios.CreateRepositoryRequest) (domain.Repository, error) {
	var repo domain.Repository
	err := c.do(ctx, http.MethodPost, "/api/v1/repository", req, &repo)
	return repo, err
}

func (c *Client) GetRepository(ctx context.Context, address string) (domain.Repository, error) {
	var repo domain.Repository
	err := c.do(ctx, http.MethodGet, "/api/v1/repository/"+address, nil, &repo)
	return repo, err
}

func (c *Client) GetVesting(ctx context.Context, repository string) (domain.VestingAccount, error) {
	var vesting domain.VestingAccount
	err := c.do(ctx, http.MethodGet, "/api/v1/repository/"+repository+"/vesting", nil, &vesting)
	return vesting, err
}

func (c *Client) SetDefaultSchedule(ctx context.Context, req defios.ScheduleRequest) error {
	return c.do(ctx, http.MethodPost, "/api/v1/schedule/default", req, nil)
}

func (c *Client) ChangeSchedule(ctx context.Context, repository string, req defios.ScheduleRequest) error {
	return c.do(ctx, http.MethodPost, "/api/v1/repository/"+repository+"/schedule", req, nil)
}

func (c *Client) UnlockTokens(ctx context.Context, repository string) (uint64, error) {
	var resp struct {
		Released uint64 `json:"released"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/repository/"+repository+"/unlock", nil, &resp)
	return resp.Released, err
}

func (c *Client) AddIssue(ctx context.Context, repository string, req defios.AddIssueRequest) (domain.Issue, error) {
	var issue domain.Issue
	err := c.do(ctx, http.MethodPost, "/api/v1/repository/"+repository+"/issue", req, &issue)
	return issue, err
}

func (c *Client) GetIssue(ctx context.Context, address string) (domain.Issue, error) {
	var issue domain.Issue
	err := c.do(ctx, http.MethodGet, "/api/v1/issue/"+address, nil, &issue)
	return issue, err
}

func (c *Client) StakeIssue(ctx context.Context, issue string, amount uint64) (domain.Staker, error) {
	var stake domain.Staker
	err := c.do(ctx, http.MethodPost, "/api/v1/issue/"+issue+"/stake", defios.StakeRequest{Amount: amount}, &stake)
	return stake, err
}

func (c *Client) UnstakeIssue(ctx context.Context, issue string) (uint64, error) {
	var resp struct {
		Refunded uint64 `json:"refunded"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/issue/"+issue+"/unstake", nil, &resp)
	return resp.Refunded, err
}

func (c *Client) AddCommit(ctx context.Context, issue string, req defios.AddCommitRequest) (domain.Commit, error) {
	var commit domain.Commit
	err := c.do(ctx, http.MethodPost, "/api/v1/issue/"+issue+"/commit", req, &commit)
	return commit, err
}

// GetCommit is cached: commit accounts are immutable.
func (c *Client) GetCommit(ctx context.Context, address string) (domain.Commit, error) {
	cacheKey := "commit:" + address
	if x, found := c.cache.Get(cacheKey); found {
		return x.(domain.Commit), nil
	}

	var commit domain.Commit
	err := c.do(ctx, http.MethodGet, "/api/v1/commit/"+address, nil, &commit)
	if err != nil {
		return domain.Commit{}, err
	}
	c.cache.Set(cacheKey, commit, cache.DefaultExpiration)
	return commit, nil
}

func (c *Client) AddPullRequest(ctx context.Context, issue string, req defios.AddPullRequestRequest) (domain.PullRequest, error) {
	var pr domain.PullRequest
	err := c.do(ctx, http.MethodPost, "/api/v1/issue/"+issue+"/pull", req, &pr)
	return pr, err
}

func (c *Client) GetPullRequest(ctx context.Context, address string) (domain.PullRequest, error) {
	var pr domain.PullRequest
	err := c.do(ctx, http.MethodGet, "/api/v1/pull/"+address, nil, &pr)
	return pr, err
}

func (c *Client) AttachCommit(ctx context.Context, pull string, req defios.AttachCommitRequest) error {
	return c.do(ctx, http.MethodPost, "/api/v1/pull/"+pull+"/commit", req, nil)
}

func (c *Client) StakePullRequest(ctx context.Context, pull string, amount uint64) (domain.Staker, error) {
	var stake domain.Staker
	err := c.do(ctx, http.MethodPost, "/api/v1/pull/"+pull+"/stake", defios.StakeRequest{Amount: amount}, &stake)
	return stake, err
}

func (c *Client) UnstakePullRequest(ctx context.Context, pull string) (uint64, error) {
	var resp struct {
		Refunded uint64 `json:"refunded"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/pull/"+pull+"/unstake", nil, &resp)
	return resp.Refunded, err
}

func (c *Client) AcceptPullRequest(ctx context.Context, pull, repository string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/pull/"+pull+"/accept", defios.AcceptPullRequestRequest{Repository: repository}, nil)
}

func (c *Client) ClaimReward(ctx context.Context, pull string) (domain.RewardBreakdown, error) {
	var breakdown domain.RewardBreakdown
	err := c.do(ctx, http.MethodPost, "/api/v1/pull/"+pull+"/claim", nil, &breakdown)
	return breakdown, err
}

func (c *Client) AddRoadmap(ctx context.Context, repository string, req defios.AddRoadmapRequest) (domain.Roadmap, error) {
	var roadmap domain.Roadmap
	err := c.do(ctx, http.MethodPost, "/api/v1/repository/"+repository+"/roadmap", req, &roadmap)
	return roadmap, err
}

func (c *Client) GetRoadmap(ctx context.Context, address string) (domain.Roadmap, error) {
	var roadmap domain.Roadmap
	err := c.do(ctx, http.MethodGet, "/api/v1/roadmap/"+address, nil, &roadmap)
	return roadmap, err
}

func (c *Client) AddObjective(ctx context.Context, roadmap string, req defios.AddObjectiveRequest) (domain.Objective, error) {
	var objective domain.Objective
	err := c.do(ctx, http.MethodPost, "/api/v1/roadmap/"+roadmap+"/objective", req, &objective)
	return objective, err
}

func (c *Client) GetObjective(ctx context.Context, address string) (domain.Objective, error) {
	var objective domain.Objective
	err := c.do(ctx, http.MethodGet, "/api/v1/objective/"+address, nil, &objective)
	return objective, err
}

func (c *Client) LinkObjective(ctx context.Context, objective, parent string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/objective/"+objective+"/link", defios.LinkObjectiveRequest{Parent: parent}, nil)
}

func (c *Client) Grant(ctx context.Context, objective string, req defios.GrantRequest) (domain.Grant, error) {
	var grant domain.Grant
	err := c.do(ctx, http.MethodPost, "/api/v1/objective/"+objective+"/grant", req, &grant)
	return grant, err
}

func (c *Client) Disperse(ctx context.Context, objective string, req defios.DisperseRequest) error {
	return c.do(ctx, http.MethodPost, "/api/v1/objective/"+objective+"/disperse", req, nil)
}

func (c *Client) CreatePool(ctx context.Context, mint string) (domain.CommunalPool, error) {
	var pool domain.CommunalPool
	err := c.do(ctx, http.MethodPost, "/api/v1/market/"+mint+"/pool", nil, &pool)
	return pool, err
}

func (c *Client) GetPool(ctx context.Context, mint string) (domain.CommunalPool, error) {
	var pool domain.CommunalPool
	err := c.do(ctx, http.MethodGet, "/api/v1/market/"+mint, nil, &pool)
	return pool, err
}

func (c *Client) Buy(ctx context.Context, mint string, amountIn, minOut uint64) (uint64, error) {
	var resp defios.SwapResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/market/"+mint+"/buy", defios.SwapRequest{AmountIn: amountIn, MinOut: minOut}, &resp)
	return resp.AmountOut, err
}

func (c *Client) Sell(ctx context.Context, mint string, amountIn, minOut uint64) (uint64, error) {
	var resp defios.SwapResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/market/"+mint+"/sell", defios.SwapRequest{AmountIn: amountIn, MinOut: minOut}, &resp)
	return resp.AmountOut, err
}

func (c *Client) GetTokenAccount(ctx context.Context, address string) (domain.TokenAccount, error) {
	var account domain.TokenAccount
	err := c.do(ctx, http.MethodGet, "/api/v1/token/"+address, nil, &account)
	return account, err
}
