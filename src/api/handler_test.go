package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/KwameAlfred37/MedFinderNew/src/middleware"
	"github.com/KwameAlfred37/MedFinderNew/src/models"
	"github.com/KwameAlfred37/MedFinderNew/src/repository"
	"github.com/KwameAlfred37/MedFinderNew/src/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRouter wires the full API against an isolated in-memory database,
// mirroring the wiring in main.
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Medicine{},
		&models.Pharmacy{},
		&models.MedicineInventory{},
		&models.ChatMessage{},
		&models.UserSearch{},
		&models.AnonymousChatUsage{},
	))

	medicineRepo := repository.NewMedicineRepository(db)
	pharmacyRepo := repository.NewPharmacyRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	searchRepo := repository.NewSearchRepository(db)
	chatRepo := repository.NewChatRepository(db)
	usageRepo := repository.NewAnonymousUsageRepository(db)
	userRepo := repository.NewUserRepository(db)

	authService := services.NewAuthService(userRepo, "test-secret", 7)
	quotaService := services.NewQuotaService(usageRepo, 4)
	searchService := services.NewSearchService(medicineRepo, pharmacyRepo, searchRepo)
	chatService := services.NewChatService(chatRepo, quotaService, services.NewScriptedReplier())
	handler := NewAPIHandler(medicineRepo, pharmacyRepo, inventoryRepo, searchRepo, searchService, chatService, quotaService, authService)

	r := gin.New()
	r.Use(middleware.Session(authService))
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/init", handler.InitHandler)
		apiGroup.GET("/search", handler.CombinedSearchHandler)
		apiGroup.GET("/search/history", handler.SearchHistoryHandler)
		apiGroup.POST("/auth/register", handler.RegisterHandler)
		apiGroup.POST("/auth/login", handler.LoginHandler)
		apiGroup.GET("/medicines/search", handler.MedicineSearchHandler)
		apiGroup.GET("/medicines/:id", handler.GetMedicineHandler)
		apiGroup.GET("/medicines/:id/availability", handler.MedicineAvailabilityHandler)
		apiGroup.POST("/medicines", middleware.RequireAccount(), handler.CreateMedicineHandler)
		apiGroup.GET("/pharmacies/search", handler.PharmacySearchHandler)
		apiGroup.GET("/chat/messages", handler.ListChatMessagesHandler)
		apiGroup.POST("/chat/messages", handler.SendChatMessageHandler)
	}
	return r, db
}

// doJSON performs one request with a pinned anonymous session cookie and
// decodes the JSON response body.
func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, out interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "medfinder_session", Value: "test-session"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if out != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w
}

func TestInitEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	var resp models.InitResponse
	w := doJSON(t, r, http.MethodGet, "/api/init", nil, &resp)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", resp.UserType)
	assert.Equal(t, "test-session", resp.SessionID)
	assert.Equal(t, 4, resp.Quota.RemainingChats)
	assert.False(t, resp.Quota.IsLimitReached)

	// Keys follow the camelCase convention used by every other payload.
	body := w.Body.String()
	assert.Contains(t, body, `"userType"`)
	assert.Contains(t, body, `"userId"`)
	assert.Contains(t, body, `"sessionId"`)
}

func TestChatQuotaOverHTTP(t *testing.T) {
	r, _ := newTestRouter(t)

	type sendResponse struct {
		Message models.ChatMessage `json:"message"`
		Quota   models.QuotaStatus `json:"quota"`
	}

	for i := 1; i <= 4; i++ {
		var resp sendResponse
		w := doJSON(t, r, http.MethodPost, "/api/chat/messages", gin.H{"message": fmt.Sprintf("question %d", i)}, &resp)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 4-i, resp.Quota.RemainingChats)
		assert.False(t, resp.Message.IsFromBot)
	}

	var rejection struct {
		Message        string `json:"message"`
		RemainingChats int    `json:"remainingChats"`
		IsLimitReached bool   `json:"isLimitReached"`
	}
	w := doJSON(t, r, http.MethodPost, "/api/chat/messages", gin.H{"message": "question 5"}, &rejection)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, rejection.Message)
	assert.Zero(t, rejection.RemainingChats)
	assert.True(t, rejection.IsLimitReached)
}

func TestCombinedSearchEndpoint(t *testing.T) {
	r, db := newTestRouter(t)
	require.NoError(t, repository.NewMedicineRepository(db).Create(&models.Medicine{Name: "Aspirin", Category: "Pain Relief"}))
	require.NoError(t, repository.NewPharmacyRepository(db).Create(&models.Pharmacy{Name: "Aspirin Corner", Address: "1 Main St"}))

	t.Run("Missing query is a 400", func(t *testing.T) {
		var resp map[string]string
		w := doJSON(t, r, http.MethodGet, "/api/search", nil, &resp)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Query parameter 'q' is required", resp["message"])
	})

	t.Run("Hits in both catalogs are merged", func(t *testing.T) {
		var resp models.SearchResponse
		w := doJSON(t, r, http.MethodGet, "/api/search?q=aspirin", nil, &resp)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, resp.Medicines, 1)
		assert.Len(t, resp.Pharmacies, 1)
	})

	t.Run("Submissions land in the search history", func(t *testing.T) {
		var history []models.UserSearch
		w := doJSON(t, r, http.MethodGet, "/api/search/history", nil, &history)
		assert.Equal(t, http.StatusOK, w.Code)
		require.NotEmpty(t, history)
		assert.Equal(t, "aspirin", history[0].Query)
	})
}

func TestMedicineEndpoints(t *testing.T) {
	r, db := newTestRouter(t)

	t.Run("Unknown medicine is a 404", func(t *testing.T) {
		var resp map[string]string
		w := doJSON(t, r, http.MethodGet, "/api/medicines/does-not-exist", nil, &resp)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Medicine not found", resp["message"])
	})

	t.Run("Creation requires an account", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/medicines", gin.H{"name": "Aspirin", "category": "Pain Relief"}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Availability only lists in-stock pharmacies", func(t *testing.T) {
		medicine := &models.Medicine{Name: "Ibuprofen", Category: "Pain Relief"}
		require.NoError(t, repository.NewMedicineRepository(db).Create(medicine))
		pharmacy := &models.Pharmacy{Name: "Stocked Pharmacy", Address: "2 Main St"}
		require.NoError(t, repository.NewPharmacyRepository(db).Create(pharmacy))
		_, err := repository.NewInventoryRepository(db).Upsert(&models.MedicineInventory{
			MedicineID: medicine.ID, PharmacyID: pharmacy.ID, Price: 5.99, Stock: 9,
		})
		require.NoError(t, err)

		var resp []models.MedicineAvailability
		w := doJSON(t, r, http.MethodGet, "/api/medicines/"+medicine.ID+"/availability", nil, &resp)
		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, resp, 1)
		assert.Equal(t, "Stocked Pharmacy", resp[0].Pharmacy.Name)
		assert.Equal(t, 9, resp[0].Stock)
	})
}

func TestAuthEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	register := gin.H{"email": "jane@example.com", "password": "hunter2pass", "firstName": "Jane", "lastName": "Doe"}

	t.Run("Register issues a token", func(t *testing.T) {
		var resp struct {
			User  models.User `json:"user"`
			Token string      `json:"token"`
		}
		w := doJSON(t, r, http.MethodPost, "/api/auth/register", register, &resp)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "jane@example.com", resp.User.Email)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("Duplicate registration is a 409", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/auth/register", register, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Login rejects a wrong password", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "jane@example.com", "password": "wrong-pass"}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Login succeeds with the right password", func(t *testing.T) {
		var resp struct {
			Token string `json:"token"`
		}
		w := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "jane@example.com", "password": "hunter2pass"}, &resp)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, resp.Token)
	})
}
