package service

import (
	"context"
	"fmt"

	"github.com/PatrickVM/in-house-open-sub001/internal/logger"
	"github.com/PatrickVM/in-house-open-sub001/internal/repository"
)

type adminService struct {
	userRepo   repository.UserRepository
	churchRepo repository.ChurchRepository
}

func NewAdminService(userRepo repository.UserRepository, churchRepo repository.ChurchRepository) AdminService {
	return &adminService{userRepo: userRepo, churchRepo: churchRepo}
}

func (s *adminService) SetEnforcementExempt(ctx context.Context, userID int32, exempt bool) error {
	if err := s.userRepo.SetEnforcementExempt(ctx, userID, exempt); err != nil {
		return fmt.Errorf("failed to update exemption: %w", err)
	}
	logger.Info("Enforcement exemption updated", "user_id", userID, "exempt", exempt)
	return nil
}

func (s *adminService) ReactivateAccount(ctx context.Context, userID int32) error {
	if err := s.userRepo.Reactivate(ctx, userID); err != nil {
		return fmt.Errorf("failed to reactivate account: %w", err)
	}
	logger.Info("Account reactivated", "user_id", userID)
	return nil
}

func (s *adminService) UpdateMinVerifications(ctx context.Context, churchID, min int32) error {
	if min < 1 {
		return fmt.Errorf("min verifications must be at least 1, got %d", min)
	}
	if err := s.churchRepo.UpdateMinVerifications(ctx, churchID, min); err != nil {
		return fmt.Errorf("failed to update verification threshold: %w", err)
	}
	logger.Info("Verification threshold updated", "church_id", churchID, "min_verifications", min)
	return nil
}
