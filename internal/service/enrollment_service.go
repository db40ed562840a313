package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mounirActualMarketing/online-sub000/internal/events"
	"github.com/mounirActualMarketing/online-sub000/internal/gateway"
	"github.com/mounirActualMarketing/online-sub000/internal/model"
	"github.com/mounirActualMarketing/online-sub000/internal/notify"
	"github.com/mounirActualMarketing/online-sub000/internal/repository"
)

type ProvisionResult struct {
	UserID           string
	AlreadyProcessed bool
}

// EnrollmentService runs the approved-payment pipeline: idempotency check,
// user upsert with a fresh password, payment record, assessment init and the
// best-effort notification fan-out.
type EnrollmentService interface {
	ProcessApprovedPayment(ctx context.Context, tx *gateway.Transaction) (*ProvisionResult, error)
}

type enrollmentService struct {
	userRepo       repository.UserRepository
	paymentRepo    repository.PaymentRepository
	assessmentRepo repository.AssessmentRepository
	dispatcher     notify.Dispatcher
	publisher      events.EventPublisher
	loginURL       string
}

func NewEnrollmentService(
	userRepo repository.UserRepository,
	paymentRepo repository.PaymentRepository,
	assessmentRepo repository.AssessmentRepository,
	dispatcher notify.Dispatcher,
	publisher events.EventPublisher,
	loginURL string,
) EnrollmentService {
	return &enrollmentService{
		userRepo:       userRepo,
		paymentRepo:    paymentRepo,
		assessmentRepo: assessmentRepo,
		dispatcher:     dispatcher,
		publisher:      publisher,
		loginURL:       loginURL,
	}
}

func (s *enrollmentService) ProcessApprovedPayment(ctx context.Context, tx *gateway.Transaction) (*ProvisionResult, error) {
	// The idempotency check runs before provisioning on purpose: a replayed
	// webhook must not rotate the customer's password without re-sending it.
	existing, err := s.paymentRepo.FindByTransactionRef(ctx, tx.TranRef)
	if err != nil {
		return nil, fmt.Errorf("lookup transaction %s: %w", tx.TranRef, err)
	}
	if existing != nil {
		slog.InfoContext(ctx, "webhook redelivery, transaction already recorded", "tran_ref", tx.TranRef)
		return &ProvisionResult{UserID: existing.UserID.String(), AlreadyProcessed: true}, nil
	}

	amount, err := strconv.ParseFloat(tx.CartAmount, 64)
	if err != nil {
		return nil, fmt.Errorf("parse cart amount %q: %w", tx.CartAmount, err)
	}

	password, err := GeneratePassword()
	if err != nil {
		return nil, fmt.Errorf("generate password: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        tx.CustomerDetails.Email,
		PasswordHash: string(hashed),
		Name:         tx.CustomerDetails.Name,
		Phone:        tx.CustomerDetails.Phone,
		Role:         model.RoleUser,
	}

	userID, err := s.userRepo.Upsert(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("upsert user %s: %w", tx.CustomerDetails.Email, err)
	}
	user.ID = userID

	payment := &model.Payment{
		UserID:          userID,
		TransactionRef:  tx.TranRef,
		CartID:          tx.CartID,
		Amount:          amount,
		Currency:        tx.CartCurrency,
		Status:          model.PaymentCompleted,
		PaymentMethod:   tx.PaymentInfo.PaymentMethod,
		CardType:        tx.PaymentInfo.CardType,
		ResponseCode:    tx.PaymentResult.ResponseCode,
		ResponseMessage: tx.PaymentResult.ResponseMessage,
		TransactionAt:   time.Now(),
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		if errors.Is(err, repository.ErrDuplicateTransaction) {
			// Lost the race against a concurrent redelivery.
			slog.InfoContext(ctx, "concurrent redelivery, transaction already recorded", "tran_ref", tx.TranRef)
			return &ProvisionResult{UserID: userID.String(), AlreadyProcessed: true}, nil
		}
		return nil, fmt.Errorf("record payment %s: %w", tx.TranRef, err)
	}

	if err := s.assessmentRepo.InitIfAbsent(ctx, userID); err != nil {
		return nil, fmt.Errorf("initialize assessment for user %s: %w", userID, err)
	}

	go s.publisher.PublishEnrollmentCompleted(userID, user.Email, tx.TranRef, amount, tx.CartCurrency)

	s.dispatcher.Dispatch(ctx, notify.Notification{
		Name:           user.Name,
		Email:          user.Email,
		Phone:          user.Phone,
		Password:       password,
		LoginURL:       s.loginURL,
		Amount:         amount,
		Currency:       tx.CartCurrency,
		TransactionRef: tx.TranRef,
	})

	return &ProvisionResult{UserID: userID.String()}, nil
}
