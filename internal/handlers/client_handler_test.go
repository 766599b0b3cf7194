package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "clinic/internal/errors"
	"clinic/internal/models"
	"clinic/internal/pagination"
	"clinic/internal/services"
)

func setupClientRouter(svc *mockClientService, audit *mockAuditService) *gin.Engine {
	h := NewClientHandler(svc, audit)
	r := gin.New()
	r.Use(injectUserID(testUserID))
	r.POST("/clients", h.AddClient)
	r.GET("/clients", h.SearchClients)
	r.GET("/clients/all", h.GetAllClients)
	r.GET("/clients/:id", h.GetClientByID)
	r.PUT("/clients/:id", h.UpdateClient)
	r.DELETE("/clients/:id", h.DeleteClient)
	return r
}

func TestAddClient(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		var got services.ClientInput
		svc := &mockClientService{createFn: func(in services.ClientInput) (*models.Client, error) {
			got = in
			return &models.Client{Base: models.Base{ID: testClientID}, Name: in.Name}, nil
		}}
		r := setupClientRouter(svc, &mockAuditService{})
		rec := doRequest(r, http.MethodPost, "/clients",
			`{"name":"Bob","email":"bob@mail.test","age":42,"phoneNumber":"555-0100"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		want := services.ClientInput{Name: "Bob", Email: "bob@mail.test", Age: 42, PhoneNumber: "555-0100"}
		if got != want {
			t.Errorf("expected %+v, got %+v", want, got)
		}
		if dataOf(t, rec)["client"] == nil {
			t.Error("expected client in data")
		}
	})

	t.Run("service validation error", func(t *testing.T) {
		svc := &mockClientService{createFn: func(services.ClientInput) (*models.Client, error) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "All fields are required")
		}}
		r := setupClientRouter(svc, &mockAuditService{})
		rec := doRequest(r, http.MethodPost, "/clients", `{"name":"Bob"}`)
		assertErrorCode(t, rec, http.StatusBadRequest, "INVALID_INPUT")
	})

	t.Run("negative age", func(t *testing.T) {
		r := setupClientRouter(&mockClientService{}, &mockAuditService{})
		rec := doRequest(r, http.MethodPost, "/clients",
			`{"name":"Bob","email":"bob@mail.test","age":-1,"phoneNumber":"1"}`)
		assertErrorCode(t, rec, http.StatusBadRequest, "INVALID_INPUT")
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc := &mockClientService{createFn: func(services.ClientInput) (*models.Client, error) {
			return nil, apperrors.ErrDuplicateClientEmail
		}}
		r := setupClientRouter(svc, &mockAuditService{})
		rec := doRequest(r, http.MethodPost, "/clients",
			`{"name":"Bob","email":"bob@mail.test","age":42,"phoneNumber":"1"}`)
		assertErrorCode(t, rec, http.StatusConflict, "DUPLICATE_CLIENT_EMAIL")
	})
}

func TestUpdateClient(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		r := setupClientRouter(&mockClientService{}, &mockAuditService{})
		rec := doRequest(r, http.MethodPut, "/clients/abc", `{"name":"Bob"}`)
		assertErrorCode(t, rec, http.StatusBadRequest, "INVALID_INPUT")
	})

	t.Run("not found", func(t *testing.T) {
		svc := &mockClientService{updateFn: func(string, services.ClientInput) (*models.Client, error) {
			return nil, apperrors.ErrClientNotFound
		}}
		r := setupClientRouter(svc, &mockAuditService{})
		rec := doRequest(r, http.MethodPut, "/clients/"+testClientID,
			`{"name":"Bob","email":"bob@mail.test","age":42,"phoneNumber":"1"}`)
		assertErrorCode(t, rec, http.StatusNotFound, "CLIENT_NOT_FOUND")
	})
}

func TestDeleteClient(t *testing.T) {
	audit := &mockAuditService{}
	deleted := ""
	svc := &mockClientService{deleteFn: func(id string) error {
		deleted = id
		return nil
	}}
	r := setupClientRouter(svc, audit)
	rec := doRequest(r, http.MethodDelete, "/clients/"+testClientID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if deleted != testClientID {
		t.Errorf("expected %s deleted, got %q", testClientID, deleted)
	}
	if a := audit.actions(); len(a) != 1 || a[0] != services.AuditActionDeleteClient {
		t.Errorf("expected delete audit, got %v", a)
	}
}

func TestSearchClients(t *testing.T) {
	var gotName, gotEmail string
	svc := &mockClientService{searchFn: func(name, email string) ([]models.Client, error) {
		gotName, gotEmail = name, email
		return []models.Client{{Name: "Bobby"}}, nil
	}}
	r := setupClientRouter(svc, &mockAuditService{})
	rec := doRequest(r, http.MethodGet, "/clients?name=bob&email=mail", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotName != "bob" || gotEmail != "mail" {
		t.Errorf("unexpected filters %q %q", gotName, gotEmail)
	}
	clients := dataOf(t, rec)["clients"].([]interface{})
	if len(clients) != 1 {
		t.Errorf("expected 1 client, got %d", len(clients))
	}
}

func TestGetAllClients(t *testing.T) {
	t.Run("unpaged", func(t *testing.T) {
		r := setupClientRouter(&mockClientService{}, &mockAuditService{})
		rec := doRequest(r, http.MethodGet, "/clients/all", "")
		data := dataOf(t, rec)
		if _, ok := data["pagination"]; ok {
			t.Error("no pagination expected without page")
		}
		if _, ok := data["clients"].([]interface{}); !ok {
			t.Errorf("expected clients array, got %v", data["clients"])
		}
	})

	t.Run("paged", func(t *testing.T) {
		var got pagination.PageRequest
		svc := &mockClientService{listFn: func(p pagination.PageRequest) (*pagination.Page[models.Client], error) {
			got = p
			page := pagination.NewPage([]models.Client{{Name: "A"}}, 2, 1, 3)
			return &page, nil
		}}
		r := setupClientRouter(svc, &mockAuditService{})
		rec := doRequest(r, http.MethodGet, "/clients/all?page=2&page_size=1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Page != 2 || got.PageSize != 1 {
			t.Errorf("unexpected page request %+v", got)
		}
		meta := dataOf(t, rec)["pagination"].(map[string]interface{})
		if meta["totalPages"] != float64(3) || meta["totalItems"] != float64(3) {
			t.Errorf("unexpected meta %v", meta)
		}
	})

	t.Run("page size too large", func(t *testing.T) {
		r := setupClientRouter(&mockClientService{}, &mockAuditService{})
		rec := doRequest(r, http.MethodGet, "/clients/all?page=1&page_size=1000", "")
		assertErrorCode(t, rec, http.StatusBadRequest, "INVALID_INPUT")
	})
}

func TestGetClientByID(t *testing.T) {
	svc := &mockClientService{getByIDFn: func(string) (*models.Client, error) {
		return nil, apperrors.ErrClientNotFound
	}}
	r := setupClientRouter(svc, &mockAuditService{})
	rec := doRequest(r, http.MethodGet, "/clients/"+testClientID, "")
	assertErrorCode(t, rec, http.StatusNotFound, "CLIENT_NOT_FOUND")
}
