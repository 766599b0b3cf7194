package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "clinic/internal/errors"
	"clinic/internal/models"
	"clinic/internal/pagination"
)

// clientService handles client-related business logic.
type clientService struct {
	db *gorm.DB
}

// NewClientService creates a new ClientServicer.
func NewClientService(db *gorm.DB) ClientServicer {
	return &clientService{db: db}
}

func (in ClientInput) normalized() ClientInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	return in
}

func (in ClientInput) validate() error {
	if in.Name == "" || in.Email == "" || in.PhoneNumber == "" || in.Age <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "All fields are required")
	}
	return nil
}

// emailTaken reports whether another client already uses email.
func (s *clientService) emailTaken(email, exceptID string) (bool, error) {
	q := s.db.Model(&models.Client{}).Where("email = ?", email)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateClient adds a new client
func (s *clientService) CreateClient(input ClientInput) (*models.Client, error) {
	input = input.normalized()
	if err := input.validate(); err != nil {
		return nil, err
	}

	taken, err := s.emailTaken(input.Email, "")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if taken {
		return nil, apperrors.ErrDuplicateClientEmail
	}

	client := &models.Client{
		Name:        input.Name,
		Email:       input.Email,
		Age:         input.Age,
		PhoneNumber: input.PhoneNumber,
	}
	if err := s.db.Create(client).Error; err != nil {
		return nil, writeError(err, apperrors.ErrDuplicateClientEmail)
	}
	return client, nil
}

// UpdateClient replaces the writable fields of a client
func (s *clientService) UpdateClient(id string, input ClientInput) (*models.Client, error) {
	input = input.normalized()
	if err := input.validate(); err != nil {
		return nil, err
	}

	client, err := s.GetClientByID(id)
	if err != nil {
		return nil, err
	}

	taken, err := s.emailTaken(input.Email, id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if taken {
		return nil, apperrors.ErrDuplicateClientEmail
	}

	client.Name = input.Name
	client.Email = input.Email
	client.Age = input.Age
	client.PhoneNumber = input.PhoneNumber
	if err := s.db.Save(client).Error; err != nil {
		return nil, writeError(err, apperrors.ErrDuplicateClientEmail)
	}
	return client, nil
}

// DeleteClient removes a client. Related appointments, invoices and history
// records are left in place.
func (s *clientService) DeleteClient(id string) error {
	res := s.db.Where("id = ?", id).Delete(&models.Client{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrClientNotFound
	}
	return nil
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// SearchClients matches clients whose name and email contain the given
// fragments, ignoring case. Empty fragments are not applied.
func (s *clientService) SearchClients(name, email string) ([]models.Client, error) {
	q := s.db.Model(&models.Client{})
	if name = strings.TrimSpace(name); name != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(name))+"%")
	}
	if email = strings.TrimSpace(email); email != "" {
		q = q.Where(`LOWER(email) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(email))+"%")
	}

	var clients []models.Client
	if err := q.Order("name ASC").Find(&clients).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return clients, nil
}

// ListClients returns every client, or a single page when page.Page is set.
func (s *clientService) ListClients(page pagination.PageRequest) (*pagination.Page[models.Client], error) {
	var total int64
	if err := s.db.Model(&models.Client{}).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	q := s.db.Order("created_at ASC")
	if page.Enabled() {
		page.Defaults()
		q = q.Scopes(pagination.Paginate(page))
	} else {
		page.Page, page.PageSize = 1, int(total)
	}

	var clients []models.Client
	if err := q.Find(&clients).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPage(clients, page.Page, page.PageSize, total)
	return &result, nil
}

// GetClientByID retrieves a client by ID
func (s *clientService) GetClientByID(id string) (*models.Client, error) {
	var client models.Client
	if err := s.db.Where("id = ?", id).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrClientNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &client, nil
}

// requireClient returns ErrClientNotFound when no client has the given ID.
func requireClient(db *gorm.DB, id string) error {
	var count int64
	if err := db.Model(&models.Client{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrClientNotFound
	}
	return nil
}

// loadClients fetches the clients with the given IDs in one query, keyed by ID.
func loadClients(db *gorm.DB, ids []string) (map[string]*models.Client, error) {
	out := make(map[string]*models.Client, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			unique = append(unique, id)
		}
	}

	var clients []models.Client
	if err := db.Where("id IN ?", unique).Find(&clients).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range clients {
		out[clients[i].ID] = &clients[i]
	}
	return out, nil
}
