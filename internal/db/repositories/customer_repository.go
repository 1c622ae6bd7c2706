// customer_repository.go implements CustomerRepository, providing database
// queries for customer creation, lookup, listing, updates, and deletion.
package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/licensegate/licensegate/internal/db/models"
)

// CustomerRepository handles customer database operations
type CustomerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new CustomerRepository
func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create inserts a new customer record
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	now := time.Now()
	customer.CreatedAt = now
	customer.UpdatedAt = now
	if customer.Status == "" {
		customer.Status = "active"
	}

	query := `
		INSERT INTO customers (customer_id, company_name, contact_name, contact_email, contact_phone,
		                       address, city, state, country, postal_code, notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.ExecContext(ctx, query,
		customer.CustomerID,
		customer.CompanyName,
		customer.ContactName,
		customer.ContactEmail,
		customer.ContactPhone,
		customer.Address,
		customer.City,
		customer.State,
		customer.Country,
		customer.PostalCode,
		customer.Notes,
		customer.Status,
		customer.CreatedAt,
		customer.UpdatedAt,
	)

	return err
}

// GetByCustomerID retrieves a customer by its code
func (r *CustomerRepository) GetByCustomerID(ctx context.Context, customerID string) (*models.Customer, error) {
	query := `
		SELECT customer_id, company_name, contact_name, contact_email, contact_phone,
		       address, city, state, country, postal_code, notes, status, created_at, updated_at
		FROM customers
		WHERE customer_id = $1
	`

	customer := &models.Customer{}
	err := r.db.QueryRowContext(ctx, query, customerID).Scan(
		&customer.CustomerID,
		&customer.CompanyName,
		&customer.ContactName,
		&customer.ContactEmail,
		&customer.ContactPhone,
		&customer.Address,
		&customer.City,
		&customer.State,
		&customer.Country,
		&customer.PostalCode,
		&customer.Notes,
		&customer.Status,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return customer, nil
}

// List retrieves all customers ordered by company name
func (r *CustomerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	query := `
		SELECT customer_id, company_name, contact_name, contact_email, contact_phone,
		       address, city, state, country, postal_code, notes, status, created_at, updated_at
		FROM customers
		ORDER BY company_name ASC, customer_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]*models.Customer, 0)
	for rows.Next() {
		customer := &models.Customer{}
		err := rows.Scan(
			&customer.CustomerID,
			&customer.CompanyName,
			&customer.ContactName,
			&customer.ContactEmail,
			&customer.ContactPhone,
			&customer.Address,
			&customer.City,
			&customer.State,
			&customer.Country,
			&customer.PostalCode,
			&customer.Notes,
			&customer.Status,
			&customer.CreatedAt,
			&customer.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}

	return customers, rows.Err()
}

// Update updates a customer's mutable fields
func (r *CustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	customer.UpdatedAt = time.Now()

	query := `
		UPDATE customers
		SET company_name = $2, contact_name = $3, contact_email = $4, contact_phone = $5,
		    address = $6, city = $7, state = $8, country = $9, postal_code = $10,
		    notes = $11, status = $12, updated_at = $13
		WHERE customer_id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		customer.CustomerID,
		customer.CompanyName,
		customer.ContactName,
		customer.ContactEmail,
		customer.ContactPhone,
		customer.Address,
		customer.City,
		customer.State,
		customer.Country,
		customer.PostalCode,
		customer.Notes,
		customer.Status,
		customer.UpdatedAt,
	)

	return err
}

// Delete removes a customer record. Callers must check for referencing
// licenses first; this is a plain delete.
func (r *CustomerRepository) Delete(ctx context.Context, customerID string) error {
	query := `DELETE FROM customers WHERE customer_id = $1`
	_, err := r.db.ExecContext(ctx, query, customerID)
	return err
}
