package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/apperr"
	"github.com/DmitryShetinin/The-X-Shop-sub002/internal/domain/model"
	repo "github.com/DmitryShetinin/The-X-Shop-sub002/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// =====================
// Mocks（衝突回避の命名）
// =====================

type InvProductRepoMock struct{ mock.Mock }

func (m *InvProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	panic("not used in InventoryUsecase tests")
}

func (m *InvProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *InvProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	panic("not used in InventoryUsecase tests")
}

func (m *InvProductRepoMock) Update(ctx context.Context, p model.Product) error {
	panic("not used in InventoryUsecase tests")
}

func (m *InvProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	panic("not used in InventoryUsecase tests")
}

type InvInventoryRepoMock struct{ mock.Mock }

func (m *InvInventoryRepoMock) WriteStockGuarded(ctx context.Context, w repo.StockWrite) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *InvInventoryRepoMock) CreateAdjustment(ctx context.Context, adj model.StockAdjustment) error {
	args := m.Called(ctx, adj)
	return args.Error(0)
}

func (m *InvInventoryRepoMock) ListAdjustments(ctx context.Context, productID int64, limit int) ([]model.StockAdjustment, error) {
	args := m.Called(ctx, productID, limit)
	items, _ := args.Get(0).([]model.StockAdjustment)
	return items, args.Error(1)
}

func newInventoryUC(p *InvProductRepoMock, i *InvInventoryRepoMock) *InventoryUsecase {
	return NewInventoryUsecase(p, i, zap.NewNop())
}

func assertKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, kind), "expected kind %s, got %v", kind, err)
}

func ptr64(v int64) *int64 { return &v }

// =====================
// 入力バリデーション
// =====================

func TestInventoryUsecase_AdjustStock_InvalidProductID(t *testing.T) {
	uc := newInventoryUC(new(InvProductRepoMock), new(InvInventoryRepoMock))

	_, err := uc.AdjustStock(context.Background(), AdjustStockInput{ProductID: 0, QuantitySold: 1})
	assertKind(t, err, apperr.KindInvalidArgument)
}

func TestInventoryUsecase_AdjustStock_NegativeQuantity(t *testing.T) {
	uc := newInventoryUC(new(InvProductRepoMock), new(InvInventoryRepoMock))

	_, err := uc.AdjustStock(context.Background(), AdjustStockInput{ProductID: 1, QuantitySold: -1})
	assertKind(t, err, apperr.KindInvalidArgument)
}

func TestInventoryUsecase_AdjustStock_ProductNotFound(t *testing.T) {
	pRepo := new(InvProductRepoMock)
	pRepo.On("FindByID", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	uc := newInventoryUC(pRepo, new(InvInventoryRepoMock))

	_, err := uc.AdjustStock(context.Background(), AdjustStockInput{ProductID: 99, QuantitySold: 1})
	assertKind(t, err, apperr.KindNotFound)
}

func TestInventoryUsecase_AdjustStock_VariantNotFound(t *testing.T) {
	pRepo := new(InvProductRepoMock)
	pRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{
		ID:            1,
		ColorVariants: []model.ColorVariant{{Color: "red", Stock: ptr64(5)}},
	}, nil)

	uc := newInventoryUC(pRepo, new(InvInventoryRepoMock))

	_, err := uc.AdjustStock(context.Background(), AdjustStockInput{ProductID: 1, QuantitySold: 1, Color: "blue"})
	assertKind(t, err, apperr.KindNotFound)
}

// =====================
// 本体在庫の減算
// =====================

func TestInventoryUsecase_AdjustStock_BaseStock_Decrement(t *testing.T) {
	pRepo := new(InvProductRepoMock)
	iRepo := new(InvInventoryRepoMock)

	pRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Stock: 5, Version: 3}, nil)

	iRepo.On("WriteStockGuarded", mock.Anything, mock.MatchedBy(func(w repo.StockWrite) bool {
		return w.ProductID == 1 && w.PrevVersion == 3 && w.Stock == 2 && w.InStock
	})).Return(nil)
	iRepo.On("CreateAdjustment", mock.Anything, mock.MatchedBy(func(adj model.StockAdjustment) bool {
		return adj.ProductID == 1 && adj.Delta == -3 && adj.Reason == "sale"
	})).Return(nil)

	out, err := newInventoryUC(pRepo, iRepo).AdjustStock(context.Background(), AdjustStockInput{
		ProductID:    1,
		QuantitySold: 3,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), out.NewQuantity)
	assert.True(t, out.InStock)

	pRepo.AssertExpectations(t)
	iRepo.AssertExpectations(t)
}

func TestInventoryUsecase_AdjustStock_ClampsAtZero(t *testing.T) {
	// 在庫5に対して7売れても負にはならない
	pRepo := new(InvProductRepoMock)
	iRepo := new(InvInventoryRepoMock)

	pRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Stock: 5}, nil)

	iRepo.On("WriteStockGuarded", mock.Anything, mock.MatchedBy(func(w repo.StockWrite) bool {
		return w.Stock == 0 && !w.InStock
	})).Return(nil)
	iRepo.On("CreateAdjustment", mock.Anything, mock.MatchedBy(func(adj model.StockAdjustment) bool {
		return adj.Delta == -5
	})).Return(nil)

	out, err := newInventoryUC(pRepo, iRepo).AdjustStock(context.Background(), AdjustStockInput{
		ProductID:    1,
		QuantitySold: 7,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), out.NewQuantity)
	assert.False(t, out.InStock)
}

func TestInventoryUsecase_AdjustStock_ZeroQuantity_NoHistory(t *testing.T) {
	// 数量0は書き込みはするが履歴は残さない（delta=0）
	pRepo := new(InvProductRepoMock)
	iRepo := new(InvInventoryRepoMock)

	pRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Stock: 5}, nil)
	iRepo.On("WriteStockGuarded", mock.Anything, mock.Anything).Return(nil)

	out, err := newInventoryUC(pRepo, iRepo).AdjustStock(context.Background(), AdjustStockInput{
		ProductID:    1,
		QuantitySold: 0,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), out.NewQuantity)

	iRepo.AssertNotCalled(t, "CreateAdjustment", mock.Anything, mock.Anything)
}

// =====================
// バリアント在庫の減算
// =====================

func TestInventoryUsecase_AdjustStock_Variant_SiblingsUntouched(t *testing.T) {
	pRepo := new(InvProductRepoMock)
	iRepo := new(InvInventoryRepoMock)

	pRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{
		ID:    1,
		Stock: 0,
		ColorVariants: []model.ColorVariant{
			{Color: "red", Stock: ptr64(5)},
			{Color: "blue", Stock: ptr64(2)},
		},
	}, nil)

	iRepo.On("WriteStockGuarded", mock.Anything, mock.MatchedBy(func(w repo.StockWrite) bool {
		if len(w.ColorVariants) != 2 {
			return false
		}
		red := w.ColorVariants[0]
		blue := w.ColorVariants[1]
		return *red.Stock == 2 && *blue.Stock == 2 && w.InStock
	})).Return(nil)
	iRepo.On("CreateAdjustment", mock.Anything, mock.MatchedBy(func(adj model.StockAdjustment) bool {
		return adj.Color == "red" && adj.Delta == -3
	})).Return(nil)

	out, err := newInventoryUC(pRepo, iRepo).AdjustStock(context.Background(), AdjustStockInput{
		ProductID:    1,
		QuantitySold: 3,
		Color:        "red",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), out.NewQuantity)
	assert.True(t, out.InStock)

	iRepo.AssertExpectations(t)
}

func TestInventoryUsecase_AdjustStock_Variant_NilStockTreatedAsZero(t *testing.T) {
	pRepo := new(InvProductRepoMock)
	iRepo := new(InvInventoryRepoMock)

	pRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{
		ID:            1,
		ColorVariants: []model.ColorVariant{{Color: "red"}},
	}, nil)

	iRepo.On("WriteStockGuarded", mock.Anything, mock.MatchedBy(func(w repo.StockWrite) bool {
		return *w.ColorVariants[0].Stock == 0 && !w.InStock
	})).Return(nil)

	out, err := newInventoryUC(pRepo, iRepo).AdjustStock(context.Background(), AdjustStockInput{
		ProductID:    1,
		QuantitySold: 4,
		Color:        "red",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), out.NewQuantity)
	assert.False(t, out.InStock)
}

func TestInventoryUsecase_AdjustStock_Variant_LastVariantSoldOut(t *testing.T) {
	// 全バリアントが0になればin_stockもfalse
	pRepo := new(InvProductRepoMock)
	iRepo := new(InvInventoryRepoMock)

	pRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{
		ID:    1,
		Stock: 100, // バリアント持ちは本体在庫を見ない
		ColorVariants: []model.ColorVariant{
			{Color: "red", Stock: ptr64(1)},
			{Color: "blue", Stock: ptr64(0)},
		},
	}, nil)

	iRepo.On("WriteStockGuarded", mock.Anything, mock.MatchedBy(func(w repo.StockWrite) bool {
		return !w.InStock
	})).Return(nil)
	iRepo.On("CreateAdjustment", mock.Anything, mock.Anything).Return(nil)

	out, err := newInventoryUC(pRepo, iRepo).AdjustStock(context.Background(), AdjustStockInput{
		ProductID:    1,
		QuantitySold: 1,
		Color:        "red",
	})
	assert.NoError(t, err)
	assert.False(t, out.InStock)
}

// =====================
// version競合と再試行
// =====================

func TestInventoryUsecase_AdjustStock_RetriesOnVersionConflict(t *testing.T) {
	pRepo := new(InvProductRepoMock)
	iRepo := new(InvInventoryRepoMock)

	// 1回目はversion3で読むが書きで競合、2回目はversion4で成功
	pRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Stock: 5, Version: 3}, nil).Once()
	pRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Stock: 4, Version: 4}, nil).Once()

	iRepo.On("WriteStockGuarded", mock.Anything, mock.MatchedBy(func(w repo.StockWrite) bool {
		return w.PrevVersion == 3
	})).Return(repo.ErrVersionConflict).Once()
	iRepo.On("WriteStockGuarded", mock.Anything, mock.MatchedBy(func(w repo.StockWrite) bool {
		return w.PrevVersion == 4 && w.Stock == 3
	})).Return(nil).Once()
	iRepo.On("CreateAdjustment", mock.Anything, mock.Anything).Return(nil)

	out, err := newInventoryUC(pRepo, iRepo).AdjustStock(context.Background(), AdjustStockInput{
		ProductID:    1,
		QuantitySold: 1,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), out.NewQuantity)

	pRepo.AssertExpectations(t)
	iRepo.AssertExpectations(t)
}

func TestInventoryUsecase_AdjustStock_ConflictExhausted(t *testing.T) {
	pRepo := new(InvProductRepoMock)
	iRepo := new(InvInventoryRepoMock)

	pRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Stock: 5}, nil)
	iRepo.On("WriteStockGuarded", mock.Anything, mock.Anything).Return(repo.ErrVersionConflict)

	_, err := newInventoryUC(pRepo, iRepo).AdjustStock(context.Background(), AdjustStockInput{
		ProductID:    1,
		QuantitySold: 1,
	})
	assertKind(t, err, apperr.KindConflict)

	pRepo.AssertNumberOfCalls(t, "FindByID", 3)
	iRepo.AssertNumberOfCalls(t, "WriteStockGuarded", 3)
}

func TestInventoryUsecase_AdjustStock_HistoryFailureDoesNotFail(t *testing.T) {
	// 履歴書き込みはbest-effort
	pRepo := new(InvProductRepoMock)
	iRepo := new(InvInventoryRepoMock)

	pRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Stock: 5}, nil)
	iRepo.On("WriteStockGuarded", mock.Anything, mock.Anything).Return(nil)
	iRepo.On("CreateAdjustment", mock.Anything, mock.Anything).Return(errors.New("db down"))

	out, err := newInventoryUC(pRepo, iRepo).AdjustStock(context.Background(), AdjustStockInput{
		ProductID:    1,
		QuantitySold: 2,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), out.NewQuantity)
}

// =====================
// 調整履歴一覧
// =====================

func TestInventoryUsecase_ListAdjustments_InvalidProductID(t *testing.T) {
	uc := newInventoryUC(new(InvProductRepoMock), new(InvInventoryRepoMock))

	_, err := uc.ListAdjustments(context.Background(), 0, 20)
	assertKind(t, err, apperr.KindInvalidArgument)
}

func TestInventoryUsecase_ListAdjustments_Success(t *testing.T) {
	iRepo := new(InvInventoryRepoMock)
	iRepo.On("ListAdjustments", mock.Anything, int64(1), 20).Return([]model.StockAdjustment{
		{ID: 1, ProductID: 1, Delta: -2, Reason: "sale"},
	}, nil)

	items, err := newInventoryUC(new(InvProductRepoMock), iRepo).ListAdjustments(context.Background(), 1, 20)
	assert.NoError(t, err)
	assert.Len(t, items, 1)

	iRepo.AssertExpectations(t)
}
