package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"cleancity/internal/core"
	"cleancity/internal/repository"
	"cleancity/internal/rewards"
	"cleancity/pkg/config"
	"cleancity/pkg/models"
)

type testServer struct {
	*Server
	userRepo  *repository.MemoryUserRepository
	statsRepo *repository.MemoryStatsRepository
	binRepo   *repository.MemoryBinRepository
	authSvc   core.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	userRepo := repository.NewMemoryUserRepository()
	statsRepo := repository.NewMemoryStatsRepository()
	eventRepo := repository.NewMemoryEventRepository()
	binRepo := repository.NewMemoryBinRepository()
	reportRepo := repository.NewMemoryReportRepository()

	cfg := &config.Config{}
	cfg.Server.ClassifyRate = 1000
	cfg.Server.ClassifyBurst = 1000
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "cleancity"
	cfg.JWT.Expiration = time.Hour

	authSvc := core.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	rewardsSvc := core.NewRewardsServiceWith(statsRepo, rewards.DefaultBadgeRules, nil, nil)
	wasteSvc := core.NewWasteService(core.StubClassifier{}, rewardsSvc, eventRepo, binRepo)
	leaderboardSvc := core.NewLeaderboardService(statsRepo, eventRepo, userRepo, nil)
	statsSvc := core.NewStatsService(statsRepo, leaderboardSvc)
	binSvc := core.NewBinService(binRepo)
	reportSvc := core.NewReportService(reportRepo, rewardsSvc)

	srv := NewServer(cfg, nil, authSvc, wasteSvc, statsSvc, binSvc, reportSvc, leaderboardSvc, nil)

	return &testServer{
		Server:    srv,
		userRepo:  userRepo,
		statsRepo: statsRepo,
		binRepo:   binRepo,
		authSvc:   authSvc,
	}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.Router().ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) (bool, json.RawMessage, string) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Success, env.Data, env.Error
}

// registerAndLogin creates a regular account and returns its id and token.
func (ts *testServer) registerAndLogin(t *testing.T, username string) (string, string) {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Username: username, Password: "password123",
	})
	require.Equal(t, 201, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{
		Username: username, Password: "password123",
	})
	require.Equal(t, 200, w.Code)

	_, data, _ := decodeEnvelope(t, w)
	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	return resp.User.ID, resp.Token
}

// adminToken seeds an admin account directly and logs it in.
func (ts *testServer) adminToken(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-pass-123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, ts.userRepo.Create(context.Background(), &models.User{
		ID: "admin-1", Username: "admin", PasswordHash: string(hash),
		Role: models.UserRoleAdmin, CreatedAt: time.Now().UTC(),
	}))

	resp, err := ts.authSvc.Login(context.Background(), models.LoginRequest{
		Username: "admin", Password: "admin-pass-123",
	})
	require.NoError(t, err)
	return resp.Token
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRegisterEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Username: "alice", Password: "password123",
	})
	assert.Equal(t, 201, w.Code)

	// Duplicate username conflicts.
	w = ts.do(t, http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Username: "alice", Password: "password456",
	})
	assert.Equal(t, 409, w.Code)

	// Binding rejects a short password before the service sees it.
	w = ts.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "bob", "password": "short",
	})
	assert.Equal(t, 400, w.Code)
}

func TestLoginEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.registerAndLogin(t, "alice")

	w := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{
		Username: "alice", Password: "wrong-password",
	})
	assert.Equal(t, 401, w.Code)
	_, _, errMsg := decodeEnvelope(t, w)
	assert.Equal(t, "invalid credentials", errMsg)
}

func TestClassifyRequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/v1/classify", "", models.ClassifyRequest{Item: "plastic bottle"})
	assert.Equal(t, 401, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/classify", "garbage-token", models.ClassifyRequest{Item: "plastic bottle"})
	assert.Equal(t, 401, w.Code)
}

func TestClassifyEndpoint(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerAndLogin(t, "alice")

	w := ts.do(t, http.MethodPost, "/api/v1/classify", token, models.ClassifyRequest{Item: "plastic bottle"})
	require.Equal(t, 200, w.Code)

	ok, data, _ := decodeEnvelope(t, w)
	assert.True(t, ok)

	var resp models.ClassifyResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.Equal(t, models.CategoryRecycle, resp.Category.Name)
	assert.Equal(t, 10, resp.Points)
	require.NotNil(t, resp.Stats)
	assert.Equal(t, 1, resp.Stats.ItemsScanned)
}

func TestClassifyCoordinatesMustPair(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.registerAndLogin(t, "alice")

	lat := 40.7829
	w := ts.do(t, http.MethodPost, "/api/v1/classify", token, models.ClassifyRequest{
		Item: "plastic bottle", Latitude: &lat,
	})
	assert.Equal(t, 400, w.Code)
}

func TestUserStatsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	userID, token := ts.registerAndLogin(t, "alice")

	w := ts.do(t, http.MethodPost, "/api/v1/classify", token, models.ClassifyRequest{Item: "banana peel"})
	require.Equal(t, 200, w.Code)

	w = ts.do(t, http.MethodGet, "/api/v1/users/"+userID+"/stats", "", nil)
	require.Equal(t, 200, w.Code)

	_, data, _ := decodeEnvelope(t, w)
	var stats models.UserStats
	require.NoError(t, json.Unmarshal(data, &stats))
	assert.Equal(t, 8, stats.TotalPoints)
	assert.Equal(t, 1, stats.CompostItems)
	require.NotNil(t, stats.Rank)
}

func TestUserStatsUnknownUserGetsZeroRecord(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/v1/users/stranger/stats", "", nil)
	require.Equal(t, 200, w.Code)

	_, data, _ := decodeEnvelope(t, w)
	var stats models.UserStats
	require.NoError(t, json.Unmarshal(data, &stats))
	assert.Zero(t, stats.TotalPoints)
	assert.Equal(t, 1, stats.Level)
}

func TestLeaderboardEndpoint(t *testing.T) {
	ts := newTestServer(t)
	_, tokenA := ts.registerAndLogin(t, "alice")
	_, tokenB := ts.registerAndLogin(t, "bob")

	for i := 0; i < 3; i++ {
		w := ts.do(t, http.MethodPost, "/api/v1/classify", tokenA, models.ClassifyRequest{Item: "plastic bottle"})
		require.Equal(t, 200, w.Code)
	}
	w := ts.do(t, http.MethodPost, "/api/v1/classify", tokenB, models.ClassifyRequest{Item: "banana peel"})
	require.Equal(t, 200, w.Code)

	w = ts.do(t, http.MethodGet, "/api/v1/leaderboard?limit=5", "", nil)
	require.Equal(t, 200, w.Code)

	_, data, _ := decodeEnvelope(t, w)
	var board models.LeaderboardResponse
	require.NoError(t, json.Unmarshal(data, &board))
	require.Len(t, board.Entries, 2)
	assert.Equal(t, "alice", board.Entries[0].Username)
	assert.Equal(t, 30, board.Entries[0].TotalPoints)
	assert.Equal(t, models.TierLegend, board.Entries[0].Tier)
	assert.Equal(t, "bob", board.Entries[1].Username)

	w = ts.do(t, http.MethodGet, "/api/v1/leaderboard?timeframe=hourly", "", nil)
	assert.Equal(t, 400, w.Code)
}

func TestMonthlyReportEndpoint(t *testing.T) {
	ts := newTestServer(t)
	userID, token := ts.registerAndLogin(t, "alice")

	w := ts.do(t, http.MethodPost, "/api/v1/classify", token, models.ClassifyRequest{Item: "plastic bottle"})
	require.Equal(t, 200, w.Code)

	month := time.Now().UTC().Format("2006-01")
	w = ts.do(t, http.MethodGet, "/api/v1/users/"+userID+"/report?month="+month, "", nil)
	require.Equal(t, 200, w.Code)

	_, data, _ := decodeEnvelope(t, w)
	var report models.MonthlyReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 1, report.TotalItems)
	assert.Equal(t, 10, report.TotalPoints)

	w = ts.do(t, http.MethodGet, "/api/v1/users/"+userID+"/report?month=June", "", nil)
	assert.Equal(t, 400, w.Code)
}

func TestBinEndpointsAdminOnly(t *testing.T) {
	ts := newTestServer(t)
	_, userToken := ts.registerAndLogin(t, "alice")

	req := models.CreateBinRequest{
		Name: "Central Park Recycling Station", Type: "recycle",
		Latitude: 40.7829, Longitude: -73.9654, Address: "Central Park West",
		Accepts: []string{"RECYCLE"},
	}

	w := ts.do(t, http.MethodPost, "/api/v1/bins", "", req)
	assert.Equal(t, 401, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/bins", userToken, req)
	assert.Equal(t, 403, w.Code)

	admin := ts.adminToken(t)
	w = ts.do(t, http.MethodPost, "/api/v1/bins", admin, req)
	require.Equal(t, 201, w.Code)

	_, data, _ := decodeEnvelope(t, w)
	var bin models.BinLocation
	require.NoError(t, json.Unmarshal(data, &bin))
	assert.Equal(t, models.BinStatusActive, bin.Status)

	// Public listing sees it.
	w = ts.do(t, http.MethodGet, "/api/v1/bins", "", nil)
	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), bin.ID)

	// Admin updates the fill level.
	capacity := 90
	w = ts.do(t, http.MethodPatch, "/api/v1/bins/"+bin.ID, admin, models.UpdateBinRequest{Capacity: &capacity})
	require.Equal(t, 200, w.Code)

	w = ts.do(t, http.MethodGet, "/api/v1/bins/"+bin.ID, "", nil)
	require.Equal(t, 200, w.Code)
	_, data, _ = decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(data, &bin))
	assert.Equal(t, 90, bin.Capacity)
}

func TestNearbyBinsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, ts.binRepo.Create(ctx, &models.BinLocation{
		ID: "b1", Name: "Central", Type: "recycle", Accepts: []string{"RECYCLE"},
		Latitude: 40.7829, Longitude: -73.9654, Status: models.BinStatusActive,
	}))

	w := ts.do(t, http.MethodGet, "/api/v1/bins/nearby?lat=40.7829&lon=-73.9654&category=RECYCLE", "", nil)
	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	// Missing coordinates is a client error.
	w = ts.do(t, http.MethodGet, "/api/v1/bins/nearby?category=RECYCLE", "", nil)
	assert.Equal(t, 400, w.Code)

	w = ts.do(t, http.MethodGet, "/api/v1/bins/nearby?lat=40&lon=-73&category=PLASMA", "", nil)
	assert.Equal(t, 400, w.Code)
}

func TestGetBinNotFound(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/api/v1/bins/missing", "", nil)
	assert.Equal(t, 404, w.Code)
}

func TestReportEndpoints(t *testing.T) {
	ts := newTestServer(t)
	userID, token := ts.registerAndLogin(t, "alice")

	createReq := models.CreateReportRequest{
		Location: "5th Ave", Latitude: 40.7644, Longitude: -73.9732,
		Description: "Overflowing bin", Priority: "high",
	}

	w := ts.do(t, http.MethodPost, "/api/v1/reports", "", createReq)
	assert.Equal(t, 401, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/reports", token, createReq)
	require.Equal(t, 201, w.Code)

	_, data, _ := decodeEnvelope(t, w)
	var report models.WasteReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, userID, report.UserID)
	assert.Equal(t, models.ReportStatusPending, report.Status)

	// The high-priority bonus landed on the reporter's stats.
	stats, err := ts.statsRepo.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 10, stats.TotalPoints)

	// Public list and get.
	w = ts.do(t, http.MethodGet, "/api/v1/reports", "", nil)
	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), report.ID)

	w = ts.do(t, http.MethodGet, "/api/v1/reports/"+report.ID, "", nil)
	assert.Equal(t, 200, w.Code)

	// Status moves are admin only.
	w = ts.do(t, http.MethodPatch, "/api/v1/reports/"+report.ID+"/status", token,
		models.UpdateReportStatusRequest{Status: "resolved"})
	assert.Equal(t, 403, w.Code)

	admin := ts.adminToken(t)
	w = ts.do(t, http.MethodPatch, "/api/v1/reports/"+report.ID+"/status", admin,
		models.UpdateReportStatusRequest{Status: "resolved"})
	require.Equal(t, 200, w.Code)

	_, data, _ = decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, models.ReportStatusResolved, report.Status)
	assert.NotNil(t, report.ResolvedAt)
}

func TestClassifyRateLimit(t *testing.T) {
	ts := newTestServer(t)
	ts.config.Server.ClassifyRate = 1
	ts.config.Server.ClassifyBurst = 2

	// Rebuild the router so the middleware picks up the tight limit.
	srv := NewServer(ts.config, nil, ts.authSvc, ts.wasteSvc, ts.statsSvc, ts.binSvc, ts.reportSvc, ts.leaderboardSvc, nil)
	ts.Server = srv

	_, token := ts.registerAndLogin(t, "alice")

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		w := ts.do(t, http.MethodPost, "/api/v1/classify", token, models.ClassifyRequest{Item: "plastic bottle"})
		codes = append(codes, w.Code)
	}

	assert.Equal(t, 200, codes[0])
	assert.Equal(t, 200, codes[1])
	assert.Contains(t, codes[2:], 429)
}
