package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/resellbd/resell-api/app/models"
	"github.com/resellbd/resell-api/app/repositories"
	"github.com/resellbd/resell-api/pkg/apperr"
	"github.com/resellbd/resell-api/pkg/event"
	"github.com/resellbd/resell-api/pkg/logger"
	"github.com/resellbd/resell-api/pkg/metrics"
)

type UserService struct {
	users    repositories.UserRepository
	products repositories.ProductRepository
	events   *event.Dispatcher
}

func NewUserService(store *repositories.Store, events *event.Dispatcher) *UserService {
	return &UserService{users: store.Users, products: store.Products, events: events}
}

// Create registers a user unless the email is taken. Role and verified are
// server-controlled and never taken from the signup body.
func (s *UserService) Create(ctx context.Context, user *models.User) (Outcome, error) {
	_, err := s.users.FindByEmail(ctx, user.Email)
	switch {
	case err == nil:
		metrics.SoftFailures.WithLabelValues("user").Inc()
		return skipped(msgUserExists), nil
	case !errors.Is(err, repositories.ErrNotFound):
		return Outcome{}, storeErr("find user", err)
	}

	user.ID = primitive.NilObjectID
	user.Role = ""
	user.Verified = false

	res, err := s.users.Create(ctx, user)
	if errors.Is(err, repositories.ErrDuplicate) {
		metrics.SoftFailures.WithLabelValues("user").Inc()
		return skipped(msgUserExists), nil
	}
	if err != nil {
		return Outcome{}, storeErr("insert user", err)
	}

	logger.WithCtx(ctx).Info("user created", "user_id", user.ID.Hex(), "email", user.Email)
	s.events.Fire(ctx, event.UserCreated, *user)
	return applied(res), nil
}

// List returns every user, or the user with the given email.
func (s *UserService) List(ctx context.Context, email string) ([]models.User, error) {
	users, err := s.users.List(ctx, email)
	if err != nil {
		return nil, storeErr("list users", err)
	}
	return users, nil
}

func (s *UserService) Promote(ctx context.Context, idHex string) (models.UpdateResult, error) {
	id, err := parseID(idHex)
	if err != nil {
		return models.UpdateResult{}, err
	}
	res, err := s.users.SetRole(ctx, id, models.RoleAdmin)
	if err != nil {
		return models.UpdateResult{}, storeErr("promote user", err)
	}
	if res.MatchedCount > 0 {
		logger.WithCtx(ctx).Info("user promoted to admin", "user_id", id.Hex())
		s.events.Fire(ctx, event.UserPromoted, id.Hex())
	}
	return res, nil
}

// Verify marks the user verified, then bulk-verifies every product listed
// under their email. The two writes are independent: a failure between them
// leaves the user verified and the products untouched, and a product created
// by this seller while Verify runs may keep its unverified snapshot. Calling
// Verify again is safe and finishes the cascade.
func (s *UserService) Verify(ctx context.Context, idHex string) (models.VerifyResult, error) {
	id, err := parseID(idHex)
	if err != nil {
		return models.VerifyResult{}, err
	}

	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.VerifyResult{}, apperr.NotFound("User not found")
	}
	if err != nil {
		return models.VerifyResult{}, storeErr("find user", err)
	}

	userRes, err := s.users.SetVerified(ctx, id)
	if err != nil {
		return models.VerifyResult{}, storeErr("verify user", err)
	}

	productRes, err := s.products.MarkSellerVerified(ctx, user.Email)
	if err != nil {
		logger.WithCtx(ctx).Error("seller verified but product cascade failed",
			"user_id", id.Hex(),
			"seller", user.Email,
			"error", err,
		)
		return models.VerifyResult{}, storeErr("verify seller products", err)
	}

	result := models.VerifyResult{
		UserUpdated:     userRes.ModifiedCount,
		ProductsUpdated: productRes.ModifiedCount,
	}
	logger.WithCtx(ctx).Info("seller verified",
		"user_id", id.Hex(),
		"seller", user.Email,
		"products_updated", result.ProductsUpdated,
	)
	s.events.Fire(ctx, event.SellerVerified, user.Email)
	return result, nil
}

func (s *UserService) Delete(ctx context.Context, idHex string) (models.DeleteResult, error) {
	id, err := parseID(idHex)
	if err != nil {
		return models.DeleteResult{}, err
	}
	res, err := s.users.Delete(ctx, id)
	if err != nil {
		return models.DeleteResult{}, storeErr("delete user", err)
	}
	if res.DeletedCount > 0 {
		s.events.Fire(ctx, event.UserDeleted, id.Hex())
	}
	return res, nil
}
