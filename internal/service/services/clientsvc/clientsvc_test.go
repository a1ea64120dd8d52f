package clientsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/lojinha/storefront/internal/service/errs"
	"github.com/lojinha/storefront/internal/service/models/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClientRepo struct {
	clients map[int64]client.Client
	nextID  int64
	err     error
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{
		clients: map[int64]client.Client{},
		nextID:  1,
	}
}

func (f *fakeClientRepo) List(_ context.Context) ([]client.Client, error) {
	if f.err != nil {
		return nil, f.err
	}
	var result []client.Client
	for _, c := range f.clients {
		result = append(result, c)
	}

	return result, nil
}

func (f *fakeClientRepo) GetByID(_ context.Context, id int64) (*client.Client, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.clients[id]
	if !ok {
		return nil, errs.ErrNotFound
	}

	return &c, nil
}

func (f *fakeClientRepo) Create(_ context.Context, name, phone string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	id := f.nextID
	f.nextID++
	f.clients[id] = client.Client{ID: id, Name: name, Phone: phone}

	return id, nil
}

func (f *fakeClientRepo) Update(_ context.Context, id int64, name, phone string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.clients[id]; !ok {
		return errs.ErrNotFound
	}
	f.clients[id] = client.Client{ID: id, Name: name, Phone: phone}

	return nil
}

func (f *fakeClientRepo) Delete(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	delete(f.clients, id)

	return nil
}

func newTestService(repo *fakeClientRepo) *ClientService {
	return MustNewClientService(WithClientRepository(repo))
}

func TestCreateAndGet(t *testing.T) {
	repo := newFakeClientRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	require.True(t, svc.Create(ctx, "Maria", "1199"))

	got := svc.GetByID(ctx, 1)
	assert.Equal(t, "Maria", got.Name)
	assert.Equal(t, "1199", got.Phone)
}

func TestGetMissingReturnsZeroClient(t *testing.T) {
	svc := newTestService(newFakeClientRepo())

	got := svc.GetByID(context.Background(), 42)

	assert.Zero(t, got.ID)
	assert.Empty(t, got.Name)
}

func TestBooleanBoundaryOnStorageError(t *testing.T) {
	repo := newFakeClientRepo()
	repo.err = errors.New("db down")
	svc := newTestService(repo)
	ctx := context.Background()

	assert.False(t, svc.Create(ctx, "Maria", "1199"))
	assert.False(t, svc.Update(ctx, 1, "Maria", "1199"))
	assert.False(t, svc.Delete(ctx, 1))
	assert.Empty(t, svc.List(ctx))
}

func TestUpdateMissingClientFails(t *testing.T) {
	svc := newTestService(newFakeClientRepo())

	assert.False(t, svc.Update(context.Background(), 42, "Maria", "1199"))
}
