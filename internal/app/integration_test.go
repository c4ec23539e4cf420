package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/greenmomguide/review-backend/config"
	"github.com/greenmomguide/review-backend/internal/app/controller"
	"github.com/greenmomguide/review-backend/internal/app/model"
	"github.com/greenmomguide/review-backend/internal/app/repository"
	"github.com/greenmomguide/review-backend/internal/app/service"
	"github.com/greenmomguide/review-backend/internal/db"
	"github.com/greenmomguide/review-backend/internal/middleware"
	"github.com/greenmomguide/review-backend/internal/router"
	"github.com/greenmomguide/review-backend/internal/storage"
	"github.com/greenmomguide/review-backend/pkg/redis"
	"github.com/greenmomguide/review-backend/pkg/util"
)

const testSecret = "integration-secret"

type TestServer struct {
	Router  *gin.Engine
	DB      *gorm.DB
	Redis   *miniredis.Miniredis
	Members []*model.Member
	Product *model.Product
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	redis.SetClient(client)
	t.Cleanup(func() {
		redis.SetClient(nil)
		_ = client.Close()
	})

	reviewRepo := repository.NewReviewRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	memberRepo := repository.NewMemberRepository(testDB)
	followUpRepo := repository.NewAdditionalReviewRepository(testDB)
	reactionRepo := repository.NewReactionRepository(testDB)
	reportRepo := repository.NewReportRepository(testDB)

	cache := redis.NewSummaryCache(client, time.Minute)
	objects := storage.NewMemoryStorage("https://cdn.test")

	authService := service.NewAuthService(memberRepo, testSecret, redis.IsTokenBlacklisted)
	reviewService := service.NewReviewService(testDB, reviewRepo, productRepo, memberRepo, objects, cache, service.DeleteDecrement)
	rankingService := service.NewRankingService(reviewRepo, productRepo, memberRepo, followUpRepo, reactionRepo, cache)
	followUpService := service.NewFollowUpService(reviewRepo, followUpRepo, service.DefaultFollowUpCooldown, nil)
	reactionService := service.NewReactionService(reviewRepo, reactionRepo, reportRepo)

	cfg := &config.Config{
		Server: config.ServerConfig{GinMode: gin.TestMode},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
	r := router.NewRouter(
		controller.NewReviewController(reviewService, rankingService),
		controller.NewFollowUpController(followUpService),
		controller.NewReactionController(reactionService),
		middleware.NewAuthMiddleware(authService),
		cfg,
	)

	ts := &TestServer{Router: r.Setup(), DB: testDB, Redis: mr}
	for i := 1; i <= 3; i++ {
		member := &model.Member{Email: fmt.Sprintf("user%d@example.com", i), Nickname: fmt.Sprintf("user%d", i)}
		require.NoError(t, memberRepo.Create(member))
		ts.Members = append(ts.Members, member)
	}
	ts.Product = &model.Product{Name: "무향 보습 로션", Brand: "맘스", Category: model.CategoryCosmetic}
	require.NoError(t, productRepo.Create(ts.Product))
	return ts
}

func tokenFor(t *testing.T, m *model.Member) string {
	token, err := util.GenerateToken(m.ID, m.Email, m.Nickname, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func (ts *TestServer) serve(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func createReviewRequest(t *testing.T, productID uint, rating int) *http.Request {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fields := map[string]string{
		"category":          "cosmetic",
		"productId":         fmt.Sprint(productID),
		"rating":            fmt.Sprint(rating),
		"useMonth":          "1",
		"functionality":     "2",
		"nonIrritating":     "3",
		"sent":              "1",
		"costEffectiveness": "2",
	}
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/review", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func jsonBody(t *testing.T, method, path string, payload interface{}) *http.Request {
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCompleteReviewJourney(t *testing.T) {
	ts := setupIntegrationTest(t)
	summaryPath := fmt.Sprintf("/api/review/summary?category=cosmetic&id=%d", ts.Product.ID)

	// 1. Three members review the product with ratings 5, 3, 4
	t.Log("Step 1: Create reviews")
	var reviewIDs []uint
	for i, rating := range []int{5, 3, 4} {
		w := ts.serve(createReviewRequest(t, ts.Product.ID, rating), tokenFor(t, ts.Members[i]))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var review map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &review))
		reviewIDs = append(reviewIDs, uint(review["index"].(float64)))
	}

	// 2. Summary shows the mean and is cached
	t.Log("Step 2: Summary")
	w := ts.serve(httptest.NewRequest(http.MethodGet, summaryPath, nil), "")
	require.Equal(t, http.StatusOK, w.Code)
	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 4.0, summary["rating"])
	assert.Equal(t, []interface{}{0.0, 3.0, 0.0}, summary["functionalityCount"])
	assert.True(t, ts.Redis.Exists(fmt.Sprintf("review:summary:cosmetic:%d", ts.Product.ID)))

	// 3. Member 1 likes member 3's review, which becomes the best review
	t.Log("Step 3: Like and best")
	w = ts.serve(jsonBody(t, http.MethodPost, "/api/review/like", map[string]uint{"reviewId": reviewIDs[2]}), tokenFor(t, ts.Members[0]))
	assert.JSONEq(t, `{"like":true}`, w.Body.String())

	w = ts.serve(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/review/best?category=cosmetic&id=%d", ts.Product.ID), nil), tokenFor(t, ts.Members[0]))
	require.Equal(t, http.StatusOK, w.Code)
	var best map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &best))
	assert.Equal(t, float64(reviewIDs[2]), best["review"].(map[string]interface{})["index"])
	assert.Equal(t, true, best["like"])

	// 4. Deleting the 3-star review under the decrement policy moves the mean to 4.5
	t.Log("Step 4: Delete review")
	w = ts.serve(jsonBody(t, http.MethodDelete, "/api/review", map[string]uint{"reviewId": reviewIDs[1]}), tokenFor(t, ts.Members[1]))
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, ts.Redis.Exists(fmt.Sprintf("review:summary:cosmetic:%d", ts.Product.ID)))

	w = ts.serve(httptest.NewRequest(http.MethodGet, summaryPath, nil), "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 4.5, summary["rating"])

	// 5. Product list sorted by rating
	t.Log("Step 5: Product list")
	w = ts.serve(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/review/product/list?category=cosmetic&id=%d&sorting=rating", ts.Product.ID), nil), tokenFor(t, ts.Members[2]))
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		NextPageExist bool `json:"nextPageExist"`
		TotalPages    int  `json:"totalPages"`
		Reviews       []struct {
			Review struct {
				ID     uint `json:"index"`
				Rating int  `json:"rating"`
			} `json:"review"`
		} `json:"reviews"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Reviews, 2)
	assert.Equal(t, 5, page.Reviews[0].Review.Rating)
	assert.Equal(t, 4, page.Reviews[1].Review.Rating)
	assert.False(t, page.NextPageExist)
}

func TestAuthenticationRequired(t *testing.T) {
	ts := setupIntegrationTest(t)

	w := ts.serve(createReviewRequest(t, ts.Product.ID, 5), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 닉네임이 바뀐 회원의 토큰은 거부된다
	stale := *ts.Members[0]
	stale.Nickname = "renamed"
	w = ts.serve(createReviewRequest(t, ts.Product.ID, 5), tokenFor(t, &stale))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 블랙리스트에 오른 토큰
	token := tokenFor(t, ts.Members[0])
	require.NoError(t, redis.BlacklistToken(context.Background(), token, time.Hour))
	w = ts.serve(createReviewRequest(t, ts.Product.ID, 5), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := setupIntegrationTest(t)

	w := ts.serve(httptest.NewRequest(http.MethodGet, "/health", nil), "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.serve(httptest.NewRequest(http.MethodGet, "/metrics", nil), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
