package clientsvc

import (
	"context"
	"log/slog"

	"github.com/lojinha/storefront/internal/dal/interfaces/iclientrepo"
	"github.com/lojinha/storefront/internal/dal/postgres"
	clientrepo "github.com/lojinha/storefront/internal/dal/repositories/client/postgres"
	"github.com/lojinha/storefront/internal/service/models/client"
)

// ClientService manages the client directory. Like the cart service it
// collapses errors to simple signals at the boundary and logs the detail.
type ClientService struct {
	clientRepo iclientrepo.PostgresRepository
}

// option is a function that configures the ClientService.
type option func(*ClientService)

// MustNewClientService creates a new ClientService.
func MustNewClientService(opts ...option) *ClientService {
	s := &ClientService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.clientRepo == nil {
		panic("clientsvc: client repository not configured")
	}

	return s
}

// WithPostgresClient sets the Postgres client for the ClientService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *ClientService) {
		s.clientRepo = clientrepo.NewPostgresClientRepository(pgClient.Pool())
	}
}

// WithClientRepository overrides the client repository. Used by tests.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClientRepository(repo iclientrepo.PostgresRepository) option {
	return func(s *ClientService) {
		s.clientRepo = repo
	}
}

// List returns all clients, or an empty slice when the directory cannot be
// read.
func (s *ClientService) List(ctx context.Context) []client.Client {
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		slog.Error("Failed to list clients", "error", err)

		return []client.Client{}
	}

	return clients
}

// GetByID returns the client, or an empty client when lookup fails.
func (s *ClientService) GetByID(ctx context.Context, id int64) client.Client {
	c, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		slog.Error("Failed to get client", "client_id", id, "error", err)

		return client.Client{}
	}

	return *c
}

// Create registers a new client.
func (s *ClientService) Create(ctx context.Context, name, phone string) bool {
	if _, err := s.clientRepo.Create(ctx, name, phone); err != nil {
		slog.Error("Failed to create client", "error", err)

		return false
	}

	return true
}

// Update rewrites the client's name and phone.
func (s *ClientService) Update(ctx context.Context, id int64, name, phone string) bool {
	if err := s.clientRepo.Update(ctx, id, name, phone); err != nil {
		slog.Error("Failed to update client", "client_id", id, "error", err)

		return false
	}

	return true
}

// Delete removes the client.
func (s *ClientService) Delete(ctx context.Context, id int64) bool {
	if err := s.clientRepo.Delete(ctx, id); err != nil {
		slog.Error("Failed to delete client", "client_id", id, "error", err)

		return false
	}

	return true
}
