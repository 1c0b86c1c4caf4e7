package shop

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Registry holds clients and employees. Neither carries derived behavior;
// the only rule is the unique client email, enforced by the store.
type Registry struct {
	store Store
}

func NewRegistry(store Store) *Registry {
	return &Registry{store: store}
}

func (r *Registry) CreateClient(ctx context.Context, name, email, phone string) (*Client, error) {
	if strings.TrimSpace(name) == "" {
		return nil, validationf("client name is required")
	}
	if !strings.Contains(email, "@") {
		return nil, validationf("invalid email %q", email)
	}
	client := &Client{ID: uuid.NewString(), Name: name, Email: email, Phone: phone}
	if err := r.store.CreateClient(ctx, client); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}

func (r *Registry) GetClient(ctx context.Context, id string) (*Client, error) {
	return r.store.GetClient(ctx, id)
}

func (r *Registry) ListClients(ctx context.Context) ([]Client, error) {
	return r.store.ListClients(ctx)
}

func (r *Registry) CreateEmployee(ctx context.Context, name, position string, hireDate time.Time) (*Employee, error) {
	if strings.TrimSpace(name) == "" {
		return nil, validationf("employee name is required")
	}
	emp := &Employee{ID: uuid.NewString(), Name: name, Position: position, HireDate: hireDate}
	if err := r.store.CreateEmployee(ctx, emp); err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	return emp, nil
}

func (r *Registry) ListEmployees(ctx context.Context) ([]Employee, error) {
	return r.store.ListEmployees(ctx)
}
