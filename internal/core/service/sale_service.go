package service

import (
	"context"
	"errors"

	"github.com/martijn/stockpoint/internal/core/domain"
	"github.com/martijn/stockpoint/internal/core/repository"
	"go.uber.org/zap"
)

// SaleOrder is a cart described by ids, as received from the API or CLI.
type SaleOrder struct {
	ClientID int64
	Courier  string
	SaleType string
	Discount domain.Cents
	Items    []SaleOrderItem
}

type SaleOrderItem struct {
	ProductID int64
	Quantity  int
}

type SaleService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	clientRepo  repository.ClientRepository
	log         *zap.Logger
}

func NewSaleService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
	log *zap.Logger,
) *SaleService {
	return &SaleService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		clientRepo:  clientRepo,
		log:         log,
	}
}

// Register turns the cart into a sale and takes the sold units out of stock.
// The cart must hold at least one line and be bound to a client.
func (s *SaleService) Register(ctx context.Context, cart *domain.Cart) (*domain.Sale, error) {
	var missing []string
	if cart.Client == nil {
		missing = append(missing, "client")
	}
	if cart.IsEmpty() {
		missing = append(missing, "items")
	}
	if len(missing) > 0 {
		return nil, NewValidationError(msgCompleteAllFields, missing...)
	}
	if cart.Discount < 0 {
		return nil, NewValidationError("invalid values", "discount")
	}

	sale := domain.NewSaleFromCart(cart)
	err := s.saleRepo.Register(ctx, sale)
	if errors.Is(err, repository.ErrInsufficientStock) {
		s.log.Info("sale rejected", zap.Error(err))
		return nil, NewValidationError("insufficient stock", "items")
	}
	if err != nil {
		s.log.Error("failed to register sale", zap.Error(err))
		return nil, &StoreError{Op: "register sale", Err: err}
	}

	s.log.Info("sale registered",
		zap.String("sale_id", sale.ID),
		zap.Int64("client_id", sale.ClientID),
		zap.Int("items", cart.ItemCount()),
		zap.Int64("total_cents", int64(sale.Total)),
	)

	return sale, nil
}

// BuildCart loads the client and products an order refers to and assembles
// the cart for it.
func (s *SaleService) BuildCart(ctx context.Context, order SaleOrder) (*domain.Cart, error) {
	cart := domain.NewCart()
	cart.Courier = order.Courier
	cart.SaleType = order.SaleType
	cart.Discount = order.Discount

	if order.ClientID != 0 {
		client, err := s.clientRepo.FindByID(ctx, order.ClientID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "client", Key: formatID(order.ClientID)}
		}
		if err != nil {
			return nil, &StoreError{Op: "find client", Err: err}
		}
		cart.BindClient(client)
	}

	for _, item := range order.Items {
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Resource: "product", Key: formatID(item.ProductID)}
		}
		if err != nil {
			return nil, &StoreError{Op: "find product", Err: err}
		}
		if err := cart.Add(product, item.Quantity); err != nil {
			return nil, NewValidationError("invalid values", "quantity")
		}
	}

	return cart, nil
}

func (s *SaleService) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "sale", Key: id}
	}
	if err != nil {
		return nil, &StoreError{Op: "get sale", Err: err}
	}
	return sale, nil
}

func (s *SaleService) ListSales(ctx context.Context, filter repository.SaleFilter) ([]*domain.Sale, error) {
	sales, err := s.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, &StoreError{Op: "list sales", Err: err}
	}
	return sales, nil
}

func (s *SaleService) CountSales(ctx context.Context, filter repository.SaleFilter) (int, error) {
	count, err := s.saleRepo.Count(ctx, filter)
	if err != nil {
		return 0, &StoreError{Op: "count sales", Err: err}
	}
	return count, nil
}
