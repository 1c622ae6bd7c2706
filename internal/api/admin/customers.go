// customers.go implements CRUD handlers for customer records.
package admin

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/licensegate/licensegate/internal/db/models"
	"github.com/licensegate/licensegate/internal/db/repositories"
)

// CustomerHandlers handles customer management endpoints
type CustomerHandlers struct {
	customerRepo *repositories.CustomerRepository
	licenseRepo  *repositories.LicenseRepository
}

// NewCustomerHandlers creates a new CustomerHandlers instance
func NewCustomerHandlers(customerRepo *repositories.CustomerRepository, licenseRepo *repositories.LicenseRepository) *CustomerHandlers {
	return &CustomerHandlers{
		customerRepo: customerRepo,
		licenseRepo:  licenseRepo,
	}
}

// customerRequest is the create/update body. Only customer_id and
// company_name are required; everything else is contact metadata.
type customerRequest struct {
	CustomerID   string `json:"customer_id"`
	CompanyName  string `json:"company_name"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
	PostalCode   string `json:"postal_code"`
	Notes        string `json:"notes"`
	Status       string `json:"status"`
}

// apply copies the request fields onto a customer model.
func (req *customerRequest) apply(customer *models.Customer) {
	customer.CompanyName = req.CompanyName
	customer.ContactName = req.ContactName
	customer.ContactEmail = req.ContactEmail
	customer.ContactPhone = req.ContactPhone
	customer.Address = req.Address
	customer.City = req.City
	customer.State = req.State
	customer.Country = req.Country
	customer.PostalCode = req.PostalCode
	customer.Notes = req.Notes
	if req.Status != "" {
		customer.Status = req.Status
	}
}

// CreateCustomer registers a new customer.
// POST /api/v1/customers
func (h *CustomerHandlers) CreateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Debug("rejected customer create body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.CustomerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer_id is required"})
		return
	}
	if req.CompanyName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company_name is required"})
		return
	}

	existing, err := h.customerRepo.GetByCustomerID(c.Request.Context(), req.CustomerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing customer"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Customer already exists"})
		return
	}

	customer := &models.Customer{CustomerID: req.CustomerID}
	req.apply(customer)

	if err := h.customerRepo.Create(c.Request.Context(), customer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"customer": customer})
}

// ListCustomers returns all customers ordered by company name.
// GET /api/v1/customers
func (h *CustomerHandlers) ListCustomers(c *gin.Context) {
	customers, err := h.customerRepo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list customers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

// GetCustomer returns a single customer by its code.
// GET /api/v1/customers/:customer_id
func (h *CustomerHandlers) GetCustomer(c *gin.Context) {
	customerID := c.Param("customer_id")

	customer, err := h.customerRepo.GetByCustomerID(c.Request.Context(), customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get customer"})
		return
	}
	if customer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// UpdateCustomer updates a customer's mutable fields.
// PUT /api/v1/customers/:customer_id
func (h *CustomerHandlers) UpdateCustomer(c *gin.Context) {
	customerID := c.Param("customer_id")

	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Debug("rejected customer update body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	customer, err := h.customerRepo.GetByCustomerID(c.Request.Context(), customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get customer"})
		return
	}
	if customer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	if req.CompanyName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company_name is required"})
		return
	}

	req.apply(customer)

	if err := h.customerRepo.Update(c.Request.Context(), customer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// DeleteCustomer removes a customer. Deletion is refused while any license
// record (active or revoked) still references the customer, so license
// history is never orphaned.
// DELETE /api/v1/customers/:customer_id
func (h *CustomerHandlers) DeleteCustomer(c *gin.Context) {
	customerID := c.Param("customer_id")

	customer, err := h.customerRepo.GetByCustomerID(c.Request.Context(), customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get customer"})
		return
	}
	if customer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	count, err := h.licenseRepo.CountByCustomer(c.Request.Context(), customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check customer licenses"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error":         "Customer has existing licenses and cannot be deleted",
			"license_count": count,
		})
		return
	}

	if err := h.customerRepo.Delete(c.Request.Context(), customerID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete customer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}
