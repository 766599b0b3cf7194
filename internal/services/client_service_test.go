package services

import (
	"testing"

	"gorm.io/gorm"

	"clinic/internal/models"
	"clinic/internal/pagination"
	"clinic/internal/testutil"
)

func validClientInput() ClientInput {
	return ClientInput{Name: "Jane Doe", Email: "Jane@Example.com ", Age: 34, PhoneNumber: "+15550199"}
}

func TestCreateClient(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewClientService(db)

		client, err := svc.CreateClient(validClientInput())
		testutil.AssertNoError(t, err)

		if client.ID == "" {
			t.Fatal("expected client ID")
		}
		if client.Email != "jane@example.com" {
			t.Errorf("expected normalized email, got %q", client.Email)
		}
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewClientService(db)

		for _, mutate := range []func(*ClientInput){
			func(in *ClientInput) { in.Name = "" },
			func(in *ClientInput) { in.Email = " " },
			func(in *ClientInput) { in.Age = 0 },
			func(in *ClientInput) { in.PhoneNumber = "" },
		} {
			in := validClientInput()
			mutate(&in)
			_, err := svc.CreateClient(in)
			testutil.AssertAppError(t, err, "INVALID_INPUT")
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewClientService(db)

		_, err := svc.CreateClient(validClientInput())
		testutil.AssertNoError(t, err)

		in := validClientInput()
		in.Email = "JANE@example.com"
		_, err = svc.CreateClient(in)
		testutil.AssertAppError(t, err, "DUPLICATE_CLIENT_EMAIL")
		testutil.AssertAppStatus(t, err, 409)
	})
}

func TestCreateClientConcurrentDuplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewClientService(db)

	insertBeforeNextCreate(t, db, func(tx *gorm.DB) error {
		return tx.Create(&models.Client{Name: "Other", Email: "jane@example.com", Age: 20, PhoneNumber: "1"}).Error
	})

	_, err := svc.CreateClient(validClientInput())
	testutil.AssertAppError(t, err, "DUPLICATE_CLIENT_EMAIL")
}

func TestUpdateClient(t *testing.T) {
	t.Run("valid_keeps_own_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewClientService(db)
		client := testutil.CreateTestClient(t, db)

		updated, err := svc.UpdateClient(client.ID, ClientInput{
			Name: "Renamed", Email: client.Email, Age: 41, PhoneNumber: "+15550000",
		})
		testutil.AssertNoError(t, err)

		if updated.Name != "Renamed" || updated.Age != 41 {
			t.Errorf("unexpected update result: %+v", updated)
		}
	})

	t.Run("email_taken_by_other", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewClientService(db)
		client := testutil.CreateTestClient(t, db)
		other := testutil.CreateTestClient(t, db)

		_, err := svc.UpdateClient(client.ID, ClientInput{
			Name: "X", Email: other.Email, Age: 20, PhoneNumber: "1",
		})
		testutil.AssertAppError(t, err, "DUPLICATE_CLIENT_EMAIL")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewClientService(db)

		_, err := svc.UpdateClient("0190c8a0-0000-7000-8000-000000000000", validClientInput())
		testutil.AssertAppError(t, err, "CLIENT_NOT_FOUND")
	})
}

func TestDeleteClient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewClientService(db)
	client := testutil.CreateTestClient(t, db)
	inv := testutil.CreateTestInvoice(t, db, client.ID, 50)

	testutil.AssertNoError(t, svc.DeleteClient(client.ID))

	_, err := svc.GetClientByID(client.ID)
	testutil.AssertAppError(t, err, "CLIENT_NOT_FOUND")

	err = svc.DeleteClient(client.ID)
	testutil.AssertAppError(t, err, "CLIENT_NOT_FOUND")

	// Invoices of a deleted client survive and expand to a nil client.
	view, err := NewInvoiceService(db).GetInvoiceByID(inv.ID)
	testutil.AssertNoError(t, err)
	if view.Client != nil {
		t.Errorf("expected nil client for orphaned invoice, got %+v", view.Client)
	}
}

func TestSearchClients(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewClientService(db)

	testutil.CreateTestClientWith(t, db, "Alice Smith", "alice@clinic.com")
	testutil.CreateTestClientWith(t, db, "Bob Stone", "bob@mail.com")
	testutil.CreateTestClientWith(t, db, "Alicia 100%", "alicia@mail.com")

	tests := []struct {
		name, qName, qEmail string
		want                int
	}{
		{"no_filters", "", "", 3},
		{"name_case_insensitive", "ALIC", "", 2},
		{"email_only", "", "MAIL.COM", 2},
		{"both_filters", "ali", "mail", 1},
		{"percent_is_literal", "%", "", 1},
		{"underscore_is_literal", "_", "", 0},
		{"no_match", "zed", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clients, err := svc.SearchClients(tt.qName, tt.qEmail)
			testutil.AssertNoError(t, err)
			if len(clients) != tt.want {
				t.Errorf("expected %d clients, got %d", tt.want, len(clients))
			}
		})
	}
}

func TestListClients(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewClientService(db)

	for i := 0; i < 5; i++ {
		testutil.CreateTestClient(t, db)
	}

	t.Run("all", func(t *testing.T) {
		page, err := svc.ListClients(pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if len(page.Items) != 5 || page.TotalItems != 5 {
			t.Errorf("expected 5 clients, got %d (total %d)", len(page.Items), page.TotalItems)
		}
	})

	t.Run("paged", func(t *testing.T) {
		page, err := svc.ListClients(pagination.PageRequest{Page: 2, PageSize: 2})
		testutil.AssertNoError(t, err)
		if len(page.Items) != 2 {
			t.Errorf("expected 2 clients on page 2, got %d", len(page.Items))
		}
		if page.TotalPages != 3 {
			t.Errorf("expected 3 pages, got %d", page.TotalPages)
		}
	})
}
