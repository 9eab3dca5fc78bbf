package api

import (
	"errors"
	"net/http"

	"github.com/KwameAlfred37/MedFinderNew/src/middleware"
	"github.com/KwameAlfred37/MedFinderNew/src/models"
	"github.com/KwameAlfred37/MedFinderNew/src/repository"
	"github.com/KwameAlfred37/MedFinderNew/src/services"
	"github.com/KwameAlfred37/MedFinderNew/src/utils"

	"github.com/gin-gonic/gin"
)

// APIHandler holds all dependencies for API handlers, such as repositories
// and services.
type APIHandler struct {
	medicineRepo  repository.MedicineRepository
	pharmacyRepo  repository.PharmacyRepository
	inventoryRepo repository.InventoryRepository
	searchRepo    repository.SearchRepository
	searchService services.SearchService
	chatService   services.ChatService
	quotaService  services.QuotaService
	authService   services.AuthService
}

// NewAPIHandler creates a new APIHandler with necessary dependencies.
func NewAPIHandler(
	medicineRepo repository.MedicineRepository,
	pharmacyRepo repository.PharmacyRepository,
	inventoryRepo repository.InventoryRepository,
	searchRepo repository.SearchRepository,
	searchService services.SearchService,
	chatService services.ChatService,
	quotaService services.QuotaService,
	authService services.AuthService,
) *APIHandler {
	return &APIHandler{
		medicineRepo:  medicineRepo,
		pharmacyRepo:  pharmacyRepo,
		inventoryRepo: inventoryRepo,
		searchRepo:    searchRepo,
		searchService: searchService,
		chatService:   chatService,
		quotaService:  quotaService,
		authService:   authService,
	}
}

// locationFromQuery reads optional lat/lng query parameters. The location
// is used only when both are present and well-formed.
func locationFromQuery(c *gin.Context) (*repository.Location, error) {
	lat, hasLat, err := utils.ParseCoordinate(c.Query("lat"))
	if err != nil {
		return nil, err
	}
	lng, hasLng, err := utils.ParseCoordinate(c.Query("lng"))
	if err != nil {
		return nil, err
	}
	if hasLat && hasLng {
		return &repository.Location{Latitude: lat, Longitude: lng}, nil
	}
	return nil, nil
}

// CombinedSearchHandler handles GET /api/search.
func (h *APIHandler) CombinedSearchHandler(c *gin.Context) {
	near, err := locationFromQuery(c)
	if err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid lat/lng parameters.", err)
		return
	}

	identity := middleware.IdentityFrom(c)
	result, err := h.searchService.Search(c.Request.Context(), identity, c.Query("q"), near)
	if err != nil {
		if errors.Is(err, services.ErrEmptyQuery) {
			utils.SendJSONError(c, http.StatusBadRequest, "Query parameter 'q' is required", nil)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to perform search", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// MedicineSearchHandler handles GET /api/medicines/search.
func (h *APIHandler) MedicineSearchHandler(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		utils.SendJSONError(c, http.StatusBadRequest, "Query parameter 'q' is required", nil)
		return
	}

	medicines, err := h.medicineRepo.Search(query)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to search medicines", err)
		return
	}
	c.JSON(http.StatusOK, medicines)
}

// GetMedicineHandler handles GET /api/medicines/:id.
func (h *APIHandler) GetMedicineHandler(c *gin.Context) {
	medicine, err := h.medicineRepo.GetByID(c.Param("id"))
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch medicine", err)
		return
	}
	if medicine == nil {
		utils.SendJSONError(c, http.StatusNotFound, "Medicine not found", nil)
		return
	}
	c.JSON(http.StatusOK, medicine)
}

// CreateMedicineRequest is the payload for POST /api/medicines.
type CreateMedicineRequest struct {
	Name         string `json:"name" binding:"required"`
	GenericName  string `json:"genericName"`
	Category     string `json:"category" binding:"required"`
	Description  string `json:"description"`
	Dosage       string `json:"dosage"`
	Manufacturer string `json:"manufacturer"`
}

// CreateMedicineHandler handles POST /api/medicines (authenticated).
func (h *APIHandler) CreateMedicineHandler(c *gin.Context) {
	var req CreateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	medicine := &models.Medicine{
		Name:         req.Name,
		GenericName:  req.GenericName,
		Category:     req.Category,
		Description:  req.Description,
		Dosage:       req.Dosage,
		Manufacturer: req.Manufacturer,
	}
	if err := h.medicineRepo.Create(medicine); err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to create medicine", err)
		return
	}
	c.JSON(http.StatusCreated, medicine)
}

// PharmacySearchHandler handles GET /api/pharmacies/search. Unlike the
// combined search, an empty query is allowed and lists all pharmacies.
func (h *APIHandler) PharmacySearchHandler(c *gin.Context) {
	near, err := locationFromQuery(c)
	if err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid lat/lng parameters.", err)
		return
	}

	pharmacies, err := h.pharmacyRepo.Search(c.Query("q"), near)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to search pharmacies", err)
		return
	}
	c.JSON(http.StatusOK, pharmacies)
}

// GetPharmacyHandler handles GET /api/pharmacies/:id.
func (h *APIHandler) GetPharmacyHandler(c *gin.Context) {
	pharmacy, err := h.pharmacyRepo.GetByID(c.Param("id"))
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch pharmacy", err)
		return
	}
	if pharmacy == nil {
		utils.SendJSONError(c, http.StatusNotFound, "Pharmacy not found", nil)
		return
	}
	c.JSON(http.StatusOK, pharmacy)
}

// CreatePharmacyRequest is the payload for POST /api/pharmacies.
type CreatePharmacyRequest struct {
	Name              string  `json:"name" binding:"required"`
	Address           string  `json:"address" binding:"required"`
	Phone             string  `json:"phone"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	IsOpen            *bool   `json:"isOpen"`
	OpenTime          string  `json:"openTime"`
	CloseTime         string  `json:"closeTime"`
	DeliveryAvailable bool    `json:"deliveryAvailable"`
}

// CreatePharmacyHandler handles POST /api/pharmacies (authenticated).
func (h *APIHandler) CreatePharmacyHandler(c *gin.Context) {
	var req CreatePharmacyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	isOpen := true
	if req.IsOpen != nil {
		isOpen = *req.IsOpen
	}
	pharmacy := &models.Pharmacy{
		Name:              req.Name,
		Address:           req.Address,
		Phone:             req.Phone,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		IsOpen:            isOpen,
		OpenTime:          req.OpenTime,
		CloseTime:         req.CloseTime,
		DeliveryAvailable: req.DeliveryAvailable,
	}
	if err := h.pharmacyRepo.Create(pharmacy); err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to create pharmacy", err)
		return
	}
	c.JSON(http.StatusCreated, pharmacy)
}

// MedicineAvailabilityHandler handles GET /api/medicines/:id/availability.
func (h *APIHandler) MedicineAvailabilityHandler(c *gin.Context) {
	near, err := locationFromQuery(c)
	if err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid lat/lng parameters.", err)
		return
	}

	availability, err := h.inventoryRepo.GetAvailability(c.Param("id"), near)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch medicine availability", err)
		return
	}
	c.JSON(http.StatusOK, availability)
}

// UpsertInventoryRequest is the payload for PUT /api/inventory.
type UpsertInventoryRequest struct {
	MedicineID string  `json:"medicineId" binding:"required"`
	PharmacyID string  `json:"pharmacyId" binding:"required"`
	Price      float64 `json:"price" binding:"required"`
	Stock      *int    `json:"stock" binding:"required"`
}

// UpsertInventoryHandler handles PUT /api/inventory (authenticated).
func (h *APIHandler) UpsertInventoryHandler(c *gin.Context) {
	var req UpsertInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	inventory := &models.MedicineInventory{
		MedicineID: req.MedicineID,
		PharmacyID: req.PharmacyID,
		Price:      req.Price,
		Stock:      *req.Stock,
	}
	updated, err := h.inventoryRepo.Upsert(inventory)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to update inventory", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ListChatMessagesHandler handles GET /api/chat/messages. Messages come
// back newest first; clients reverse them for display.
func (h *APIHandler) ListChatMessagesHandler(c *gin.Context) {
	identity := middleware.IdentityFrom(c)
	messages, err := h.chatService.ListMessages(identity, 0)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch chat messages", err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// SendChatMessageRequest is the payload for POST /api/chat/messages.
type SendChatMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// SendChatMessageHandler handles POST /api/chat/messages: quota admission,
// message persistence, and the delayed assistant follow-up.
func (h *APIHandler) SendChatMessageHandler(c *gin.Context) {
	var req SendChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	identity := middleware.IdentityFrom(c)
	message, quota, err := h.chatService.SendMessage(identity, req.Message, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrQuotaExceeded):
			c.JSON(http.StatusTooManyRequests, gin.H{
				"message":        "You have reached your free weekly chat limit. Please sign in to continue.",
				"remainingChats": 0,
				"isLimitReached": true,
			})
		case errors.Is(err, services.ErrEmptyMessage):
			utils.SendJSONError(c, http.StatusBadRequest, "Message cannot be empty.", nil)
		default:
			utils.SendJSONError(c, http.StatusInternalServerError, "Failed to send chat message", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": message,
		"quota":   quota,
	})
}

// SearchHistoryHandler handles GET /api/search/history.
func (h *APIHandler) SearchHistoryHandler(c *gin.Context) {
	identity := middleware.IdentityFrom(c)
	userID, sessionID := identity.UserAndSessionIDs()
	searches, err := h.searchRepo.List(userID, sessionID, 0)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch search history", err)
		return
	}
	c.JSON(http.StatusOK, searches)
}

// InitHandler handles GET /api/init. It tells the client who it is and how
// much chat quota it has left.
func (h *APIHandler) InitHandler(c *gin.Context) {
	identity := middleware.IdentityFrom(c)
	quota, err := h.quotaService.CheckAdmission(identity)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch session state", err)
		return
	}

	response := models.InitResponse{
		UserType: string(identity.Kind),
		UserID:   identity.ID,
		Quota:    quota,
	}
	if !identity.IsAccount() {
		response.SessionID = identity.ID
	}
	c.JSON(http.StatusOK, response)
}
