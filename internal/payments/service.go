package payments

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ticketly/internal/bookings"
	"ticketly/internal/events"
	"ticketly/internal/notifications"
	"ticketly/internal/shared/constants"
	"ticketly/internal/users"
	"ticketly/pkg/cache"
	"ticketly/pkg/gateway"
	"ticketly/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultCurrency = "INR"

// Service is the payment lifecycle: order creation, signature
// verification and refund. Each operation is a stateless invocation;
// all state lives in the ledger between calls.
type Service interface {
	CreateOrder(ctx context.Context, callerID string, req CreateOrderRequest) (*CreateOrderResponse, error)
	VerifyPayment(ctx context.Context, callerID string, req VerifyPaymentRequest) (*VerifyPaymentResponse, error)
	ProcessRefund(ctx context.Context, callerID string, req RefundRequest) (*RefundResponse, error)
}

type service struct {
	repo        Repository
	bookingRepo bookings.Repository
	eventRepo   events.Repository
	userRepo    users.Repository
	gw          gateway.Client
	idem        cache.Service
	idemTTL     time.Duration
	producer    notifications.Producer // nil when Kafka is disabled
	log         *logger.Logger
}

func NewService(
	repo Repository,
	bookingRepo bookings.Repository,
	eventRepo events.Repository,
	userRepo users.Repository,
	gw gateway.Client,
	idem cache.Service,
	idemTTL time.Duration,
	producer notifications.Producer,
	log *logger.Logger,
) Service {
	return &service{
		repo:        repo,
		bookingRepo: bookingRepo,
		eventRepo:   eventRepo,
		userRepo:    userRepo,
		gw:          gw,
		idem:        idem,
		idemTTL:     idemTTL,
		producer:    producer,
		log:         log,
	}
}

// CreateOrder opens a gateway order for a caller-owned booking. The
// charge amount comes exclusively from the stored booking total; a
// client-supplied amount is never trusted.
func (s *service) CreateOrder(ctx context.Context, callerID string, req CreateOrderRequest) (*CreateOrderResponse, error) {
	caller, err := requireCaller(callerID)
	if err != nil {
		return nil, err
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, NewError(CodeInvalidArgument, "booking_id is required and must be a valid id")
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Errorf(CodeNotFound, "booking %s not found", bookingID)
		}
		return nil, WrapError(CodeInternal, "failed to load booking", err)
	}

	if booking.UserID != caller {
		return nil, NewError(CodePermissionDenied, "booking does not belong to caller")
	}

	amount := booking.ChargeAmount()
	if amount <= 0 {
		return nil, NewError(CodeFailedPrecondition, "booking has no valid amount to charge")
	}

	if !s.gw.Configured() {
		return nil, NewError(CodeFailedPrecondition, "payment gateway credentials are not configured")
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	receipt := req.Receipt
	if receipt == "" {
		receipt = "booking_" + bookingID.String()
	}

	order, err := s.gw.CreateOrder(MinorUnits(amount), currency, receipt, map[string]interface{}{
		"booking_id": bookingID.String(),
		"user_id":    caller.String(),
	})
	if err != nil {
		// The gateway message is preserved for operator diagnosis
		return nil, WrapError(CodeInternal, "gateway order creation failed", err)
	}

	// The gateway order exists before this write; a crash in between
	// leaves an orphaned order, which is inert until captured.
	if err := s.bookingRepo.SetOrderID(ctx, bookingID, order.ID); err != nil {
		return nil, WrapError(CodeInternal, "failed to persist gateway order id", err)
	}

	s.log.Info("gateway order created",
		slog.String("booking_id", bookingID.String()),
		slog.String("order_id", order.ID),
		slog.Int64("amount_minor", order.Amount),
	)

	return &CreateOrderResponse{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: currency,
		Key:      s.gw.KeyID(),
	}, nil
}

// VerifyPayment validates the gateway signature and, on success,
// atomically confirms the booking and materializes its transaction
// record. On mismatch the booking is marked payment_failed; that write
// is the authoritative record of the failed attempt.
func (s *service) VerifyPayment(ctx context.Context, callerID string, req VerifyPaymentRequest) (*VerifyPaymentResponse, error) {
	if _, err := requireCaller(callerID); err != nil {
		return nil, err
	}

	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" || req.BookingID == "" {
		return nil, NewError(CodeInvalidArgument, "razorpay_order_id, razorpay_payment_id, razorpay_signature and booking_id are required")
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, NewError(CodeInvalidArgument, "booking_id must be a valid id")
	}

	secret := s.gw.KeySecret()
	if secret == "" {
		return nil, NewError(CodeFailedPrecondition, "payment gateway credentials are not configured")
	}

	if !VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, secret, req.RazorpaySignature) {
		if err := s.bookingRepo.MarkPaymentFailed(ctx, bookingID); err != nil {
			s.log.Error("failed to mark booking payment_failed",
				slog.String("booking_id", bookingID.String()),
				slog.Any("error", err),
			)
		}
		s.publish(&notifications.PaymentEvent{
			Type:      notifications.EventPaymentFailed,
			BookingID: bookingID.String(),
		})
		return nil, NewError(CodePermissionDenied, "payment signature verification failed")
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Errorf(CodeNotFound, "booking %s not found", bookingID)
		}
		return nil, WrapError(CodeInternal, "failed to load booking", err)
	}

	txn := s.buildTransaction(ctx, booking, req)

	if err := s.repo.ConfirmBooking(ctx, bookingID, req.RazorpaySignature, txn); err != nil {
		if errors.Is(err, ErrStaleBookingStatus) {
			return nil, Errorf(CodeFailedPrecondition, "booking is %s, not %s", booking.Status, bookings.StatusPaymentPending)
		}
		return nil, WrapError(CodeInternal, "failed to confirm booking", err)
	}

	// The payment is committed; the capacity counter is secondary
	// bookkeeping and must not roll it back on failure.
	s.adjustCapacity(ctx, booking, "confirm", booking.TotalTickets())

	s.publish(&notifications.PaymentEvent{
		Type:          notifications.EventPaymentConfirmed,
		BookingID:     bookingID.String(),
		TransactionID: txn.ID.String(),
		EventID:       booking.EventID.String(),
		UserID:        booking.UserID.String(),
		Amount:        txn.AmountPaid,
	})

	return &VerifyPaymentResponse{
		Verified:      true,
		BookingID:     bookingID.String(),
		TransactionID: txn.ID.String(),
	}, nil
}

// ProcessRefund refunds a confirmed booking: gateway refund first, then
// one atomic batch reversing booking, transaction, capacity and tickets.
func (s *service) ProcessRefund(ctx context.Context, callerID string, req RefundRequest) (*RefundResponse, error) {
	caller, err := requireCaller(callerID)
	if err != nil {
		return nil, err
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, NewError(CodeInvalidArgument, "booking_id is required and must be a valid id")
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Errorf(CodeNotFound, "booking %s not found", bookingID)
		}
		return nil, WrapError(CodeInternal, "failed to load booking", err)
	}

	if err := s.authorizeRefund(ctx, caller, booking); err != nil {
		return nil, err
	}

	if !booking.Status.CanRefund() {
		return nil, Errorf(CodeFailedPrecondition, "booking is %s; only confirmed bookings can be refunded", booking.Status)
	}

	txn, err := s.repo.FindSuccessTransaction(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Errorf(CodeNotFound, "no successful transaction found for booking %s", bookingID)
		}
		return nil, WrapError(CodeInternal, "failed to locate transaction", err)
	}

	paymentID := txn.PaymentID()
	if paymentID == "" {
		return nil, NewError(CodeFailedPrecondition, "transaction has no gateway payment id")
	}

	if !s.gw.Configured() {
		return nil, NewError(CodeFailedPrecondition, "payment gateway credentials are not configured")
	}

	// Partial refund when an amount is supplied, full otherwise
	refundAmount := req.Amount
	if refundAmount <= 0 {
		refundAmount = txn.AmountPaid
	}

	var notes map[string]interface{}
	if req.Reason != "" {
		notes = map[string]interface{}{"reason": req.Reason}
	}

	refund, err := s.gw.CreateRefund(paymentID, MinorUnits(refundAmount), notes)
	if err != nil {
		return nil, WrapError(CodeInternal, "gateway refund failed", err)
	}

	ticketCount := booking.TotalTickets()
	if ticketCount <= 0 {
		ticketCount = 1
	}

	app := RefundApplication{
		BookingID:     bookingID,
		EventID:       booking.EventID,
		TransactionID: txn.ID,
		RefundID:      refund.ID,
		RefundReason:  req.Reason,
		RefundAmount:  refundAmount,
		TicketCount:   ticketCount,
	}

	if err := s.repo.ApplyRefund(ctx, app); err != nil {
		if errors.Is(err, ErrStaleBookingStatus) {
			return nil, NewError(CodeFailedPrecondition, "booking is no longer refundable")
		}
		// The gateway refund has already been issued; the ledger write
		// failed. Surface the error with enough context for an operator.
		s.log.Error("refund issued but ledger update failed",
			slog.String("booking_id", bookingID.String()),
			slog.String("refund_id", refund.ID),
			slog.Any("error", err),
		)
		return nil, WrapError(CodeInternal, "refund issued but ledger update failed", err)
	}

	s.publish(&notifications.PaymentEvent{
		Type:          notifications.EventPaymentRefunded,
		BookingID:     bookingID.String(),
		TransactionID: txn.ID.String(),
		EventID:       booking.EventID.String(),
		UserID:        booking.UserID.String(),
		Amount:        refundAmount,
		RefundID:      refund.ID,
	})

	return &RefundResponse{
		RefundID: refund.ID,
		Status:   "refunded",
	}, nil
}

// buildTransaction synthesizes the transaction record from the booking's
// current snapshot. The id is generated before the write so it can be
// returned to the caller.
func (s *service) buildTransaction(ctx context.Context, booking *bookings.Booking, req VerifyPaymentRequest) *Transaction {
	details := make([]TicketDetail, 0, len(booking.Items))
	for _, item := range booking.Items {
		details = append(details, TicketDetail{
			TierID:    item.TierID.String(),
			TierName:  item.TierName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.UnitPrice * float64(item.Quantity),
		})
	}

	txn := &Transaction{
		ID:            uuid.New(),
		BookingID:     booking.ID,
		UserID:        booking.UserID,
		EventID:       booking.EventID,
		TicketDetails: details,
		AmountPaid:    booking.ChargeAmount(),
		PaymentMethod: "razorpay",

		RazorpayPaymentID: req.RazorpayPaymentID,
		RazorpayOrderID:   req.RazorpayOrderID,

		PaymentStatus: PaymentStatusSuccess,
		Status:        LegacyStatusCompleted,

		VerificationMethod: "signature",
	}

	// Denormalized event metadata is display-only; a lookup failure does
	// not block confirmation
	if event, err := s.eventRepo.GetByID(ctx, booking.EventID); err == nil {
		txn.EventTitle = event.Name
		eventDate := event.DateTime
		txn.EventDate = &eventDate
	} else {
		s.log.Warn("could not denormalize event metadata onto transaction",
			slog.String("event_id", booking.EventID.String()),
			slog.Any("error", err),
		)
	}

	return txn
}

// authorizeRefund allows the booking owner or a caller whose stored
// profile carries an elevated role. The role comes from the user record,
// not the token claims.
func (s *service) authorizeRefund(ctx context.Context, caller uuid.UUID, booking *bookings.Booking) error {
	if booking.UserID == caller {
		return nil
	}

	user, err := s.userRepo.GetByID(ctx, caller)
	if err != nil {
		return NewError(CodePermissionDenied, "caller is not authorized to refund this booking")
	}
	if !user.Role.IsElevated() {
		return NewError(CodePermissionDenied, "caller is not authorized to refund this booking")
	}
	return nil
}

// adjustCapacity applies the best-effort sold counter delta behind an
// idempotency key, so a retried call cannot double-apply. Errors are
// logged, never surfaced: payment truth over counter accuracy.
func (s *service) adjustCapacity(ctx context.Context, booking *bookings.Booking, op string, delta int) {
	if delta <= 0 {
		return
	}

	key := constants.BuildCapacityKey(op, booking.ID.String())
	acquired, err := s.idem.AcquireOnce(ctx, key, s.idemTTL)
	if err != nil {
		s.log.Error("capacity idempotency check failed",
			slog.String("booking_id", booking.ID.String()),
			slog.Any("error", err),
		)
		return
	}
	if !acquired {
		s.log.Warn("capacity adjustment already applied, skipping",
			slog.String("booking_id", booking.ID.String()),
			slog.String("op", op),
		)
		return
	}

	if err := s.eventRepo.AdjustSoldCount(ctx, booking.EventID, delta); err != nil {
		s.log.Error("capacity counter update failed",
			slog.String("event_id", booking.EventID.String()),
			slog.String("booking_id", booking.ID.String()),
			slog.Int("delta", delta),
			slog.Any("error", err),
		)
	}
}

// publish emits a payment event when a producer is wired; delivery is
// best-effort
func (s *service) publish(event *notifications.PaymentEvent) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishPaymentEvent(context.Background(), event); err != nil {
		s.log.Error("failed to publish payment event",
			slog.String("type", string(event.Type)),
			slog.String("booking_id", event.BookingID),
			slog.Any("error", err),
		)
	}
}

// requireCaller rejects unauthenticated invocations
func requireCaller(callerID string) (uuid.UUID, error) {
	if callerID == "" {
		return uuid.Nil, NewError(CodeUnauthenticated, "caller identity is required")
	}
	caller, err := uuid.Parse(callerID)
	if err != nil {
		return uuid.Nil, NewError(CodeUnauthenticated, "caller identity is invalid")
	}
	return caller, nil
}
