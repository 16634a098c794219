package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"publications-backend/internal/domains/publication/model"
	"publications-backend/internal/domains/publication/query"
	"publications-backend/internal/domains/publication/repository"
)

type mockPublicationRepo struct {
	mock.Mock
}

func (m *mockPublicationRepo) Exists(ctx context.Context, pubID int64) (bool, error) {
	args := m.Called(ctx, pubID)
	return args.Bool(0), args.Error(1)
}

func (m *mockPublicationRepo) Insert(ctx context.Context, pub *model.Publication) error {
	return m.Called(ctx, pub).Error(0)
}

func (m *mockPublicationRepo) GetByID(ctx context.Context, pubID int64) (*model.Publication, error) {
	args := m.Called(ctx, pubID)
	pub, _ := args.Get(0).(*model.Publication)
	return pub, args.Error(1)
}

func (m *mockPublicationRepo) Search(ctx context.Context, s query.Search) ([]model.Publication, error) {
	args := m.Called(ctx, s)
	pubs, _ := args.Get(0).([]model.Publication)
	return pubs, args.Error(1)
}

func (m *mockPublicationRepo) Update(ctx context.Context, pubID int64, changes query.Changes) (int64, error) {
	args := m.Called(ctx, pubID, changes)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPublicationRepo) DeleteByID(ctx context.Context, pubID int64) (int64, error) {
	args := m.Called(ctx, pubID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPublicationRepo) CountByFilter(ctx context.Context, f query.Filter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPublicationRepo) DeleteByFilter(ctx context.Context, f query.Filter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

type mockAuthorRepo struct {
	mock.Mock
}

func (m *mockAuthorRepo) ListAuthors(ctx context.Context, pubID int64) ([]string, error) {
	args := m.Called(ctx, pubID)
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

func (m *mockAuthorRepo) AttachAuthors(ctx context.Context, pubs []model.Publication) error {
	return m.Called(ctx, pubs).Error(0)
}

func (m *mockAuthorRepo) AddAuthor(ctx context.Context, pubID int64, name string) error {
	return m.Called(ctx, pubID, name).Error(0)
}

func (m *mockAuthorRepo) AddAuthors(ctx context.Context, pubID int64, names []string) error {
	return m.Called(ctx, pubID, names).Error(0)
}

func (m *mockAuthorRepo) RenameAuthor(ctx context.Context, pubID int64, oldName, newName string) (int64, error) {
	args := m.Called(ctx, pubID, oldName, newName)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAuthorRepo) RemoveAuthor(ctx context.Context, pubID int64, name string) (int64, error) {
	args := m.Called(ctx, pubID, name)
	return args.Get(0).(int64), args.Error(1)
}

// passThroughTx runs fn against the same mocks and records how many transactions ran.
type passThroughTx struct {
	pubs    repository.PublicationRepository
	authors repository.AuthorRepository
	calls   int
}

func (p *passThroughTx) WithinTransaction(ctx context.Context, fn repository.TxFunc) error {
	p.calls++
	return fn(ctx, p.pubs, p.authors)
}
