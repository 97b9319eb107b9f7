package promo

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/clearpathlegal/growth-engine/internal/entity"
)

// MemoryStore keeps the promo catalog in process with one lock per code.
// Cross-code operations need no coordination, so independent codes never
// contend.
type MemoryStore struct {
	mu    sync.RWMutex
	codes map[string]*codeEntry
}

type codeEntry struct {
	mu sync.Mutex
	pc entity.PromoCode
}

func NewMemoryStore(seed []entity.PromoCode) *MemoryStore {
	s := &MemoryStore{codes: make(map[string]*codeEntry, len(seed))}
	for _, pc := range seed {
		pc.Code = NormalizeCode(pc.Code)
		s.codes[pc.Code] = &codeEntry{pc: pc}
	}
	return s
}

func (s *MemoryStore) Get(code string) (entity.PromoCode, bool) {
	s.mu.RLock()
	entry, ok := s.codes[NormalizeCode(code)]
	s.mu.RUnlock()
	if !ok {
		return entity.PromoCode{}, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.pc, true
}

func (s *MemoryStore) Update(code string, fn func(pc *entity.PromoCode) error) error {
	s.mu.RLock()
	entry, ok := s.codes[NormalizeCode(code)]
	s.mu.RUnlock()
	if !ok {
		return entity.ErrPromoNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	// fn mutates a copy; the mutation is only committed when fn succeeds.
	pc := entry.pc
	if err := fn(&pc); err != nil {
		return err
	}
	entry.pc = pc
	return nil
}

// DefaultCatalog is the promo seed loaded at process start.
func DefaultCatalog() []entity.PromoCode {
	minWelcome := decimal.NewFromInt(30)
	singleUse := 1
	launchEnd := time.Date(2026, time.December, 31, 23, 59, 59, 0, time.UTC)

	return []entity.PromoCode{
		{
			Code:          "SAVE20",
			Kind:          entity.DiscountPercentage,
			Value:         decimal.NewFromInt(20),
			Active:        true,
			TargetProduct: entity.TargetAllProducts,
		},
		{
			Code:           "WELCOME10",
			Kind:           entity.DiscountFixed,
			Value:          decimal.NewFromInt(10),
			MinOrderAmount: &minWelcome,
			Active:         true,
			TargetProduct:  entity.TargetAllProducts,
		},
		{
			Code:          "DIY15",
			Kind:          entity.DiscountPercentage,
			Value:         decimal.NewFromInt(15),
			Active:        true,
			TargetProduct: entity.ProductDIY,
		},
		{
			Code:          "LAUNCH25",
			Kind:          entity.DiscountPercentage,
			Value:         decimal.NewFromInt(25),
			MaxUses:       &singleUse,
			ValidUntil:    &launchEnd,
			Active:        true,
			TargetProduct: entity.ProductReview,
		},
	}
}
