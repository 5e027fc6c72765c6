package usecase

import (
	"context"
	"testing"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/apperr"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"
	repo "github.com/DmitryShetinin/The-X-Shop-sub002/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type NewsletterRepoMock struct{ mock.Mock }

func (m *NewsletterRepoMock) Upsert(ctx context.Context, email string, subscribed bool) error {
	args := m.Called(ctx, email, subscribed)
	return args.Error(0)
}

func (m *NewsletterRepoMock) FindByEmail(ctx context.Context, email string) (model.NewsletterSubscriber, error) {
	args := m.Called(ctx, email)
	s, _ := args.Get(0).(model.NewsletterSubscriber)
	return s, args.Error(1)
}

func (m *NewsletterRepoMock) ListSubscribed(ctx context.Context) ([]model.NewsletterSubscriber, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.NewsletterSubscriber)
	return items, args.Error(1)
}

func TestNewsletterUsecase_Subscribe_InvalidEmail(t *testing.T) {
	uc := NewNewsletterUsecase(new(NewsletterRepoMock))

	err := uc.Subscribe(context.Background(), "not-an-email")
	assertKind(t, err, apperr.KindInvalidArgument)
}

func TestNewsletterUsecase_Subscribe_NormalizesEmail(t *testing.T) {
	nRepo := new(NewsletterRepoMock)
	nRepo.On("Upsert", mock.Anything, "a@b.com", true).Return(nil)

	uc := NewNewsletterUsecase(nRepo)

	err := uc.Subscribe(context.Background(), " A@B.com ")
	assert.NoError(t, err)

	nRepo.AssertExpectations(t)
}

func TestNewsletterUsecase_Unsubscribe_NotFound(t *testing.T) {
	nRepo := new(NewsletterRepoMock)
	nRepo.On("FindByEmail", mock.Anything, "a@b.com").Return(model.NewsletterSubscriber{}, repo.ErrNotFound)

	uc := NewNewsletterUsecase(nRepo)

	err := uc.Unsubscribe(context.Background(), "a@b.com")
	assertKind(t, err, apperr.KindNotFound)

	nRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}

func TestNewsletterUsecase_Unsubscribe_Success(t *testing.T) {
	nRepo := new(NewsletterRepoMock)
	nRepo.On("FindByEmail", mock.Anything, "a@b.com").Return(model.NewsletterSubscriber{ID: 1, Email: "a@b.com", Subscribed: true}, nil)
	nRepo.On("Upsert", mock.Anything, "a@b.com", false).Return(nil)

	uc := NewNewsletterUsecase(nRepo)

	err := uc.Unsubscribe(context.Background(), "a@b.com")
	assert.NoError(t, err)

	nRepo.AssertExpectations(t)
}

func TestNewsletterUsecase_AdminListSubscribed_Unauthorized(t *testing.T) {
	uc := NewNewsletterUsecase(new(NewsletterRepoMock))

	_, err := uc.AdminListSubscribed(context.Background(), 0)
	assertKind(t, err, apperr.KindUnauthorized)
}

func TestNewsletterUsecase_AdminListSubscribed_Success(t *testing.T) {
	nRepo := new(NewsletterRepoMock)
	nRepo.On("ListSubscribed", mock.Anything).Return([]model.NewsletterSubscriber{
		{ID: 1, Email: "a@b.com", Subscribed: true},
	}, nil)

	uc := NewNewsletterUsecase(nRepo)

	items, err := uc.AdminListSubscribed(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
}
