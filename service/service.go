package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vending-machine/analytics"
	"vending-machine/ledger"
	"vending-machine/model"
	"vending-machine/store"
)

// DefaultTimeout bounds each store call when Options.Timeout is zero.
const DefaultTimeout = 5 * time.Second

type Options struct {
	// Timeout bounds each store call. Negative disables the bound.
	Timeout time.Duration
	Logger  *zap.Logger
}

// Service owns the catalog and the balance ledger for one session and is the
// only writer of either. The lock lets status readers run beside the console.
type Service struct {
	mu      sync.RWMutex
	store   store.Store
	catalog *model.Catalog
	ledger  *ledger.Ledger
	timeout time.Duration
	log     *zap.Logger
}

// Receipt is returned for a completed sale.
type Receipt struct {
	ID        string `json:"id"`
	Product   string `json:"product"`
	PricePaid int64  `json:"price_paid"`
	Balance   int64  `json:"balance"`
}

func NewService(st store.Store, c *model.Catalog, l *ledger.Ledger, opts Options) *Service {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Service{
		store:   st,
		catalog: c,
		ledger:  l,
		timeout: opts.Timeout,
		log:     opts.Logger,
	}
}

// Open loads the catalog and ledger tail from st and returns a ready Service.
func Open(ctx context.Context, st store.Store, opts Options) (*Service, error) {
	s := NewService(st, nil, nil, opts)

	lctx, cancel := s.callContext(ctx)
	rows, err := st.LoadCatalogRows(lctx)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	c, err := model.Load(rows)
	if err != nil {
		return nil, err
	}

	lctx, cancel = s.callContext(ctx)
	l, err := ledger.Open(lctx, st)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("load balance: %w", err)
	}

	s.catalog, s.ledger = c, l
	s.log.Info("catalog loaded", zap.Int("products", c.Len()), zap.Int64("balance", l.CurrentBalance()))
	return s, nil
}

func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Len()
}

func (s *Service) Product(index int) (model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, err := s.catalog.At(index)
	if err != nil {
		return model.Product{}, fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	}
	return *p, nil
}

func (s *Service) Products() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Products()
}

func (s *Service) Balance() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.CurrentBalance()
}

// Report computes analytics over the catalog as it is now.
func (s *Service) Report() analytics.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return analytics.Build(s.catalog.Products(), s.ledger.CurrentBalance())
}

// Select validates a customer selection without changing anything.
func (s *Service) Select(index int) (model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, err := s.selectable(index)
	if err != nil {
		return model.Product{}, err
	}
	return *p, nil
}

func (s *Service) selectable(index int) (*model.Product, error) {
	p, err := s.catalog.At(index)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	}
	if !p.InStock() {
		return nil, fmt.Errorf("%w: %s", ErrOutOfStock, p.Name)
	}
	return p, nil
}

// Dispense sells one unit of the product at index.
//
// The product row is written first. If that fails the in-memory sale is
// undone and a PersistFailed error is returned. If the row lands but the
// balance entry does not, the sale stands and a LedgerAppendFailed error is
// returned.
func (s *Service) Dispense(ctx context.Context, index int) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.selectable(index)
	if err != nil {
		return Receipt{}, err
	}

	snap := p.Snapshot()
	if err := p.RecordSale(); err != nil {
		if errors.Is(err, model.ErrOverflow) {
			s.log.Warn("sale refused", zap.String("product", p.Name), zap.Error(err))
			return Receipt{}, fmt.Errorf("%w: %w", ErrAmountTooLarge, err)
		}
		s.log.Error("record sale", zap.String("product", p.Name), zap.Error(err))
		return Receipt{}, err
	}

	if err := s.persist(ctx, p); err != nil {
		p.Restore(snap)
		s.log.Warn("sale rolled back", zap.String("product", p.Name), zap.Error(err))
		return Receipt{}, &TransactionError{Kind: PersistFailed, Product: p.Name, Err: err}
	}

	lctx, cancel := s.callContext(ctx)
	err = s.ledger.Append(lctx, snap.Price)
	cancel()
	if err != nil {
		s.log.Error("balance out of sync with sales",
			zap.String("product", p.Name),
			zap.Int64("price", snap.Price),
			zap.Int64("recorded_balance", s.ledger.CurrentBalance()),
			zap.Error(err))
		return Receipt{}, &TransactionError{Kind: LedgerAppendFailed, Product: p.Name, Err: err}
	}

	r := Receipt{
		ID:        uuid.New().String(),
		Product:   p.Name,
		PricePaid: snap.Price,
		Balance:   s.ledger.CurrentBalance(),
	}
	s.log.Info("dispensed",
		zap.String("receipt", r.ID),
		zap.String("product", r.Product),
		zap.Int64("price", r.PricePaid),
		zap.Int64("balance", r.Balance),
		zap.Int64("stock", p.Quantity))
	return r, nil
}

// AddStock adds quantity units to the product at index and persists it.
func (s *Service) AddStock(ctx context.Context, index int, quantity int64) (model.Product, error) {
	if quantity < 0 {
		return model.Product{}, ErrNegativeAmount
	}
	return s.update(ctx, index, func(p *model.Product) error {
		if quantity > math.MaxInt64-p.Quantity {
			return ErrAmountTooLarge
		}
		p.Quantity += quantity
		return nil
	})
}

// SetPrice replaces the price of the product at index and persists it. Past
// income is not touched.
func (s *Service) SetPrice(ctx context.Context, index int, price int64) (model.Product, error) {
	if price < 0 {
		return model.Product{}, ErrNegativeAmount
	}
	return s.update(ctx, index, func(p *model.Product) error {
		p.Price = price
		return nil
	})
}

func (s *Service) update(ctx context.Context, index int, apply func(*model.Product) error) (model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.catalog.At(index)
	if err != nil {
		return model.Product{}, fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	}

	snap := p.Snapshot()
	if err := apply(p); err != nil {
		return snap, err
	}
	if err := s.persist(ctx, p); err != nil {
		p.Restore(snap)
		s.log.Warn("product update rolled back", zap.String("product", p.Name), zap.Error(err))
		return snap, err
	}
	s.log.Info("product updated",
		zap.String("product", p.Name),
		zap.Int64("quantity", p.Quantity),
		zap.Int64("price", p.Price))
	return *p, nil
}

// RemoveMoney takes amount out of the machine. Only amounts strictly below
// the current balance are accepted; removing the whole balance is refused.
func (s *Service) RemoveMoney(ctx context.Context, amount int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	balance := s.ledger.CurrentBalance()
	if amount < 0 {
		return balance, ErrNegativeAmount
	}
	if amount >= balance {
		return balance, ErrRemovalNotAllowed
	}

	lctx, cancel := s.callContext(ctx)
	defer cancel()
	if err := s.ledger.Append(lctx, -amount); err != nil {
		s.log.Warn("cash removal not recorded", zap.Int64("amount", amount), zap.Error(err))
		return balance, err
	}
	s.log.Info("cash removed", zap.Int64("amount", amount), zap.Int64("balance", s.ledger.CurrentBalance()))
	return s.ledger.CurrentBalance(), nil
}

func (s *Service) persist(ctx context.Context, p *model.Product) error {
	pctx, cancel := s.callContext(ctx)
	defer cancel()
	return s.store.WriteProductRows(pctx, p.Row())
}

func (s *Service) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout < 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// IsStoreFailure reports whether err came from the persistence boundary.
func IsStoreFailure(err error) bool {
	return errors.Is(err, store.ErrUnavailable) ||
		errors.Is(err, store.ErrRowNotFound) ||
		errors.Is(err, store.ErrStore)
}
