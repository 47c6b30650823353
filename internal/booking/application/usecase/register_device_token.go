package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/application/ports/in"
	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/application/ports/out"
	"github.com/ganesh-basavoju/mechpro-backend/internal/model"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/logger"
)

// RegisterDeviceTokenService stores the push token for an actor. An empty
// token is allowed and clears the stored one, which disables push for that
// actor until a new token arrives.
type RegisterDeviceTokenService struct {
	userRepo     out.UserRepository
	mechanicRepo out.MechanicRepository
	adminRepo    out.AdminRepository
	log          *logger.Logger
}

func NewRegisterDeviceTokenService(
	userRepo out.UserRepository,
	mechanicRepo out.MechanicRepository,
	adminRepo out.AdminRepository,
	log *logger.Logger,
) *RegisterDeviceTokenService {
	return &RegisterDeviceTokenService{
		userRepo:     userRepo,
		mechanicRepo: mechanicRepo,
		adminRepo:    adminRepo,
		log:          log,
	}
}

func (s *RegisterDeviceTokenService) Execute(ctx context.Context, input in.RegisterDeviceTokenInput) error {
	token := strings.TrimSpace(input.Token)

	var err error
	switch input.Class {
	case model.ClassUser:
		err = s.userRepo.UpdateFCMToken(ctx, input.ActorID, token)
	case model.ClassMechanic:
		err = s.mechanicRepo.UpdateFCMToken(ctx, input.ActorID, token)
	case model.ClassAdmin:
		err = s.adminRepo.UpdateFCMToken(ctx, input.ActorID, token)
	default:
		return fmt.Errorf("unknown actor class %q", input.Class)
	}
	if err != nil {
		return err
	}

	s.log.Info(logger.Entry{
		Action:  "device_token_registered",
		Message: string(input.Class),
		Additional: map[string]any{
			"actor_id":  input.ActorID,
			"has_token": token != "",
		},
	})
	return nil
}
