package service

import (
	"context"

	"peersupport-backend/internal/domain"
	"peersupport-backend/internal/repository"
)

type ledgerService struct {
	ledgerRepo repository.LedgerRepository
}

func NewLedgerService(ledgerRepo repository.LedgerRepository) LedgerService {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

func (s *ledgerService) GetBalance(ctx context.Context, userID int32) (int32, error) {
	return s.ledgerRepo.GetBalance(ctx, userID)
}

func (s *ledgerService) GetTransactions(ctx context.Context, userID int32, page, pageSize int32) ([]domain.LedgerTransaction, int32, error) {
	return s.ledgerRepo.ListTransactions(ctx, userID, page, pageSize)
}
