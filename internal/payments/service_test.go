package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"ticketly/internal/bookings"
	"ticketly/internal/events"
	"ticketly/internal/notifications"
	"ticketly/internal/shared/constants"
	"ticketly/internal/tickets"
	"ticketly/internal/users"
	"ticketly/pkg/gateway"
	"ticketly/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test_key_secret"

// ---- fakes ----

type fakeBookingRepo struct {
	store        map[uuid.UUID]*bookings.Booking
	failedMarked []uuid.UUID
}

func newFakeBookingRepo(bkgs ...*bookings.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{store: make(map[uuid.UUID]*bookings.Booking)}
	for _, b := range bkgs {
		r.store[b.ID] = b
	}
	return r
}

func (r *fakeBookingRepo) CreateWithTickets(_ context.Context, booking *bookings.Booking, _ []tickets.Ticket) error {
	r.store[booking.ID] = booking
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id uuid.UUID) (*bookings.Booking, error) {
	b, ok := r.store[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) GetByUserID(_ context.Context, _ uuid.UUID, _, _ int) ([]bookings.Booking, int64, error) {
	return nil, 0, nil
}

func (r *fakeBookingRepo) SetOrderID(_ context.Context, id uuid.UUID, orderID string) error {
	b, ok := r.store[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	b.RazorpayOrderID = orderID
	b.Status = bookings.StatusPaymentPending
	return nil
}

func (r *fakeBookingRepo) MarkPaymentFailed(_ context.Context, id uuid.UUID) error {
	r.failedMarked = append(r.failedMarked, id)
	if b, ok := r.store[id]; ok && b.Status.CanConfirm() {
		b.Status = bookings.StatusPaymentFailed
	}
	return nil
}

type fakePaymentRepo struct {
	bookingRepo *fakeBookingRepo
	txns        map[uuid.UUID]*Transaction // keyed by booking id
	refunds     []RefundApplication
}

func newFakePaymentRepo(br *fakeBookingRepo) *fakePaymentRepo {
	return &fakePaymentRepo{bookingRepo: br, txns: make(map[uuid.UUID]*Transaction)}
}

func (r *fakePaymentRepo) ConfirmBooking(_ context.Context, bookingID uuid.UUID, signature string, txn *Transaction) error {
	b, ok := r.bookingRepo.store[bookingID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if !b.Status.CanConfirm() {
		return ErrStaleBookingStatus
	}
	b.Status = bookings.StatusConfirmed
	b.RazorpaySignature = signature
	r.txns[bookingID] = txn
	return nil
}

func (r *fakePaymentRepo) FindSuccessTransaction(_ context.Context, bookingID uuid.UUID) (*Transaction, error) {
	txn, ok := r.txns[bookingID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return txn, nil
}

func (r *fakePaymentRepo) ApplyRefund(_ context.Context, app RefundApplication) error {
	b, ok := r.bookingRepo.store[app.BookingID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if !b.Status.CanRefund() {
		return ErrStaleBookingStatus
	}
	b.Status = bookings.StatusRefunded
	if txn, ok := r.txns[app.BookingID]; ok {
		txn.PaymentStatus = PaymentStatusRefunded
		txn.Status = LegacyStatusRefunded
		txn.RefundID = app.RefundID
		txn.RefundAmount = app.RefundAmount
	}
	r.refunds = append(r.refunds, app)
	return nil
}

type fakeEventRepo struct {
	store  map[uuid.UUID]*events.Event
	deltas []int
}

func newFakeEventRepo(evts ...*events.Event) *fakeEventRepo {
	r := &fakeEventRepo{store: make(map[uuid.UUID]*events.Event)}
	for _, e := range evts {
		r.store[e.ID] = e
	}
	return r
}

func (r *fakeEventRepo) Create(_ context.Context, event *events.Event) error {
	r.store[event.ID] = event
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id uuid.UUID) (*events.Event, error) {
	e, ok := r.store[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (r *fakeEventRepo) List(_ context.Context, _, _ int) ([]events.Event, int64, error) {
	return nil, 0, nil
}

func (r *fakeEventRepo) AdjustSoldCount(_ context.Context, id uuid.UUID, delta int) error {
	if e, ok := r.store[id]; ok {
		e.SoldCount += delta
	}
	r.deltas = append(r.deltas, delta)
	return nil
}

func (r *fakeEventRepo) ReconcileSoldCount(_ context.Context, _ uuid.UUID) (int, error) {
	return 0, nil
}

type fakeUserRepo struct {
	store map[uuid.UUID]*users.User
}

func newFakeUserRepo(us ...*users.User) *fakeUserRepo {
	r := &fakeUserRepo{store: make(map[uuid.UUID]*users.User)}
	for _, u := range us {
		r.store[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*users.User, error) {
	u, ok := r.store[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, _ string) (*users.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, u *users.User) error {
	r.store[u.ID] = u
	return nil
}

func (r *fakeUserRepo) EmailExists(_ context.Context, _ string) (bool, error) {
	return false, nil
}

type fakeGateway struct {
	configured    bool
	orders        []*gateway.Order
	refunds       []fakeRefundCall
	orderErr      error
	refundErr     error
	nextRefundID  string
	lastOrderNote map[string]interface{}
}

type fakeRefundCall struct {
	PaymentID string
	Amount    int64
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{configured: true, nextRefundID: "rfnd_test_1"}
}

func (g *fakeGateway) CreateOrder(amount int64, currency, receipt string, notes map[string]interface{}) (*gateway.Order, error) {
	if g.orderErr != nil {
		return nil, g.orderErr
	}
	g.lastOrderNote = notes
	order := &gateway.Order{
		ID:       "order_test_" + uuid.NewString()[:8],
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	}
	g.orders = append(g.orders, order)
	return order, nil
}

func (g *fakeGateway) CreateRefund(paymentID string, amount int64, _ map[string]interface{}) (*gateway.Refund, error) {
	if g.refundErr != nil {
		return nil, g.refundErr
	}
	g.refunds = append(g.refunds, fakeRefundCall{PaymentID: paymentID, Amount: amount})
	return &gateway.Refund{ID: g.nextRefundID, Amount: amount, Status: "processed"}, nil
}

func (g *fakeGateway) KeyID() string { return "rzp_test_key" }

func (g *fakeGateway) KeySecret() string {
	if !g.configured {
		return ""
	}
	return testSecret
}

func (g *fakeGateway) Configured() bool { return g.configured }

type fakeCache struct {
	claimed map[string]bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{claimed: make(map[string]bool)}
}

func (c *fakeCache) Get(_ context.Context, _ string, _ interface{}) error { return nil }
func (c *fakeCache) Set(_ context.Context, _ string, _ interface{}, _ time.Duration) error {
	return nil
}
func (c *fakeCache) Delete(_ context.Context, _ string) error { return nil }
func (c *fakeCache) Ping(_ context.Context) error             { return nil }

func (c *fakeCache) AcquireOnce(_ context.Context, key string, _ time.Duration) (bool, error) {
	if c.claimed[key] {
		return false, nil
	}
	c.claimed[key] = true
	return true, nil
}

type fakeProducer struct {
	published []*notifications.PaymentEvent
}

func (p *fakeProducer) PublishPaymentEvent(_ context.Context, event *notifications.PaymentEvent) error {
	p.published = append(p.published, event)
	return nil
}

func (p *fakeProducer) Close() error { return nil }

// ---- fixtures ----

type fixture struct {
	service     Service
	bookingRepo *fakeBookingRepo
	paymentRepo *fakePaymentRepo
	eventRepo   *fakeEventRepo
	userRepo    *fakeUserRepo
	gw          *fakeGateway
	cache       *fakeCache
	producer    *fakeProducer
}

func newFixture(t *testing.T, bkgs ...*bookings.Booking) *fixture {
	t.Helper()

	f := &fixture{
		bookingRepo: newFakeBookingRepo(bkgs...),
		eventRepo:   newFakeEventRepo(),
		userRepo:    newFakeUserRepo(),
		gw:          newFakeGateway(),
		cache:       newFakeCache(),
		producer:    &fakeProducer{},
	}
	f.paymentRepo = newFakePaymentRepo(f.bookingRepo)
	f.service = NewService(
		f.paymentRepo,
		f.bookingRepo,
		f.eventRepo,
		f.userRepo,
		f.gw,
		f.cache,
		time.Hour,
		f.producer,
		logger.New(),
	)
	return f
}

func pendingBooking(userID uuid.UUID, amount float64, quantity int) *bookings.Booking {
	bookingID := uuid.New()
	return &bookings.Booking{
		ID:          bookingID,
		UserID:      userID,
		EventID:     uuid.New(),
		FinalAmount: amount,
		TotalAmount: amount,
		Status:      bookings.StatusPaymentPending,
		Items: []bookings.BookingItem{
			{
				ID:        uuid.New(),
				BookingID: bookingID,
				TierID:    uuid.New(),
				TierName:  "General",
				Quantity:  quantity,
				UnitPrice: amount / float64(quantity),
			},
		},
	}
}

func confirmedBooking(f *fixture, userID uuid.UUID, amount float64, quantity int) (*bookings.Booking, *Transaction) {
	booking := pendingBooking(userID, amount, quantity)
	booking.Status = bookings.StatusConfirmed
	f.bookingRepo.store[booking.ID] = booking

	txn := &Transaction{
		ID:                uuid.New(),
		BookingID:         booking.ID,
		UserID:            userID,
		EventID:           booking.EventID,
		AmountPaid:        amount,
		RazorpayPaymentID: "pay_test_123",
		RazorpayOrderID:   "order_test_123",
		PaymentStatus:     PaymentStatusSuccess,
		Status:            LegacyStatusCompleted,
	}
	f.paymentRepo.txns[booking.ID] = txn
	return booking, txn
}

func assertCode(t *testing.T, err error, code Code) {
	t.Helper()
	require.Error(t, err)
	var perr *Error
	require.True(t, errors.As(err, &perr), "expected *payments.Error, got %T: %v", err, err)
	assert.Equal(t, code, perr.Code)
}

// ---- CreateOrder ----

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("creates a gateway order for the booking amount", func(t *testing.T) {
		booking := pendingBooking(userID, 750.50, 3)
		f := newFixture(t, booking)

		resp, err := f.service.CreateOrder(ctx, userID.String(), CreateOrderRequest{
			BookingID: booking.ID.String(),
		})
		require.NoError(t, err)

		assert.Equal(t, int64(75050), resp.Amount)
		assert.Equal(t, "INR", resp.Currency)
		assert.Equal(t, "rzp_test_key", resp.Key)
		assert.NotEmpty(t, resp.OrderID)

		stored := f.bookingRepo.store[booking.ID]
		assert.Equal(t, resp.OrderID, stored.RazorpayOrderID)
		assert.Equal(t, booking.ID.String(), f.gw.lastOrderNote["booking_id"])
	})

	t.Run("uses the legacy total when final amount is absent", func(t *testing.T) {
		booking := pendingBooking(userID, 0, 1)
		booking.FinalAmount = 0
		booking.TotalAmount = 199.99
		f := newFixture(t, booking)

		resp, err := f.service.CreateOrder(ctx, userID.String(), CreateOrderRequest{
			BookingID: booking.ID.String(),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(19999), resp.Amount)
	})

	t.Run("rejects an anonymous caller", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.CreateOrder(ctx, "", CreateOrderRequest{BookingID: uuid.NewString()})
		assertCode(t, err, CodeUnauthenticated)
	})

	t.Run("rejects a malformed booking id", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.CreateOrder(ctx, userID.String(), CreateOrderRequest{BookingID: "not-a-uuid"})
		assertCode(t, err, CodeInvalidArgument)
	})

	t.Run("rejects a booking that does not exist", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.CreateOrder(ctx, userID.String(), CreateOrderRequest{BookingID: uuid.NewString()})
		assertCode(t, err, CodeNotFound)
	})

	t.Run("rejects a caller who does not own the booking", func(t *testing.T) {
		booking := pendingBooking(userID, 100, 1)
		f := newFixture(t, booking)

		_, err := f.service.CreateOrder(ctx, uuid.NewString(), CreateOrderRequest{
			BookingID: booking.ID.String(),
		})
		assertCode(t, err, CodePermissionDenied)
	})

	t.Run("rejects a booking with no chargeable amount", func(t *testing.T) {
		booking := pendingBooking(userID, 100, 1)
		booking.FinalAmount = 0
		booking.TotalAmount = 0
		f := newFixture(t, booking)

		_, err := f.service.CreateOrder(ctx, userID.String(), CreateOrderRequest{
			BookingID: booking.ID.String(),
		})
		assertCode(t, err, CodeFailedPrecondition)
	})

	t.Run("fails cleanly when credentials are missing", func(t *testing.T) {
		booking := pendingBooking(userID, 100, 1)
		f := newFixture(t, booking)
		f.gw.configured = false

		_, err := f.service.CreateOrder(ctx, userID.String(), CreateOrderRequest{
			BookingID: booking.ID.String(),
		})
		assertCode(t, err, CodeFailedPrecondition)
	})

	t.Run("surfaces gateway failures as internal", func(t *testing.T) {
		booking := pendingBooking(userID, 100, 1)
		f := newFixture(t, booking)
		f.gw.orderErr = errors.New("gateway unavailable")

		_, err := f.service.CreateOrder(ctx, userID.String(), CreateOrderRequest{
			BookingID: booking.ID.String(),
		})
		assertCode(t, err, CodeInternal)
		assert.Contains(t, err.Error(), "gateway unavailable")
	})
}

// ---- VerifyPayment ----

func verifyRequest(booking *bookings.Booking) VerifyPaymentRequest {
	orderID := "order_verify_1"
	paymentID := "pay_verify_1"
	return VerifyPaymentRequest{
		RazorpayOrderID:   orderID,
		RazorpayPaymentID: paymentID,
		RazorpaySignature: ComputeSignature(orderID, paymentID, testSecret),
		BookingID:         booking.ID.String(),
	}
}

func TestVerifyPayment(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("confirms the booking on a valid signature", func(t *testing.T) {
		booking := pendingBooking(userID, 500, 2)
		f := newFixture(t, booking)
		f.eventRepo.store[booking.EventID] = &events.Event{
			ID:   booking.EventID,
			Name: "GopherCon India",
		}

		resp, err := f.service.VerifyPayment(ctx, userID.String(), verifyRequest(booking))
		require.NoError(t, err)

		assert.True(t, resp.Verified)
		assert.Equal(t, booking.ID.String(), resp.BookingID)

		stored := f.bookingRepo.store[booking.ID]
		assert.Equal(t, bookings.StatusConfirmed, stored.Status)

		txn := f.paymentRepo.txns[booking.ID]
		require.NotNil(t, txn)
		assert.Equal(t, resp.TransactionID, txn.ID.String())
		assert.Equal(t, PaymentStatusSuccess, txn.PaymentStatus)
		assert.Equal(t, LegacyStatusCompleted, txn.Status)
		assert.Equal(t, "pay_verify_1", txn.RazorpayPaymentID)
		assert.Equal(t, 500.0, txn.AmountPaid)
		assert.Equal(t, "signature", txn.VerificationMethod)
		assert.Equal(t, "GopherCon India", txn.EventTitle)
		require.Len(t, txn.TicketDetails, 1)
		assert.Equal(t, 500.0, txn.TicketDetails[0].Subtotal)

		require.Len(t, f.eventRepo.deltas, 1)
		assert.Equal(t, 2, f.eventRepo.deltas[0])

		require.Len(t, f.producer.published, 1)
		assert.Equal(t, notifications.EventPaymentConfirmed, f.producer.published[0].Type)
	})

	t.Run("marks the booking failed on a signature mismatch", func(t *testing.T) {
		booking := pendingBooking(userID, 500, 2)
		f := newFixture(t, booking)

		req := verifyRequest(booking)
		req.RazorpaySignature = "deadbeef"

		_, err := f.service.VerifyPayment(ctx, userID.String(), req)
		assertCode(t, err, CodePermissionDenied)

		assert.Contains(t, f.bookingRepo.failedMarked, booking.ID)
		assert.Equal(t, bookings.StatusPaymentFailed, f.bookingRepo.store[booking.ID].Status)
		assert.Nil(t, f.paymentRepo.txns[booking.ID])
		assert.Empty(t, f.eventRepo.deltas)

		require.Len(t, f.producer.published, 1)
		assert.Equal(t, notifications.EventPaymentFailed, f.producer.published[0].Type)
	})

	t.Run("a stale mismatch cannot move a confirmed booking backwards", func(t *testing.T) {
		f := newFixture(t)
		booking, txn := confirmedBooking(f, userID, 500, 2)

		req := verifyRequest(booking)
		req.RazorpaySignature = "deadbeef"

		_, err := f.service.VerifyPayment(ctx, userID.String(), req)
		assertCode(t, err, CodePermissionDenied)

		// The booking keeps its confirmed status and its success
		// transaction; only a payment_pending booking may be failed.
		assert.Equal(t, bookings.StatusConfirmed, f.bookingRepo.store[booking.ID].Status)
		assert.Equal(t, PaymentStatusSuccess, txn.PaymentStatus)
	})

	t.Run("rejects missing fields before touching state", func(t *testing.T) {
		booking := pendingBooking(userID, 500, 2)
		f := newFixture(t, booking)

		req := verifyRequest(booking)
		req.RazorpayPaymentID = ""

		_, err := f.service.VerifyPayment(ctx, userID.String(), req)
		assertCode(t, err, CodeInvalidArgument)
		assert.Empty(t, f.bookingRepo.failedMarked)
	})

	t.Run("loses cleanly when the booking was already confirmed", func(t *testing.T) {
		booking := pendingBooking(userID, 500, 2)
		booking.Status = bookings.StatusConfirmed
		f := newFixture(t, booking)

		_, err := f.service.VerifyPayment(ctx, userID.String(), verifyRequest(booking))
		assertCode(t, err, CodeFailedPrecondition)
		assert.Empty(t, f.eventRepo.deltas)
	})

	t.Run("does not double-apply the capacity increment", func(t *testing.T) {
		booking := pendingBooking(userID, 500, 2)
		f := newFixture(t, booking)

		// Simulate a retry that arrives after the idempotency key was
		// already claimed by another worker.
		f.cache.claimed[constants.BuildCapacityKey("confirm", booking.ID.String())] = true

		_, err := f.service.VerifyPayment(ctx, userID.String(), verifyRequest(booking))
		require.NoError(t, err)
		assert.Empty(t, f.eventRepo.deltas)
	})

	t.Run("confirms even when event metadata lookup fails", func(t *testing.T) {
		booking := pendingBooking(userID, 500, 2)
		f := newFixture(t, booking)

		resp, err := f.service.VerifyPayment(ctx, userID.String(), verifyRequest(booking))
		require.NoError(t, err)
		assert.True(t, resp.Verified)
		assert.Empty(t, f.paymentRepo.txns[booking.ID].EventTitle)
	})
}

// ---- ProcessRefund ----

func TestProcessRefund(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("refunds the full paid amount by default", func(t *testing.T) {
		f := newFixture(t)
		booking, txn := confirmedBooking(f, userID, 640.25, 2)

		resp, err := f.service.ProcessRefund(ctx, userID.String(), RefundRequest{
			BookingID: booking.ID.String(),
			Reason:    "event cancelled",
		})
		require.NoError(t, err)

		assert.Equal(t, "rfnd_test_1", resp.RefundID)
		assert.Equal(t, "refunded", resp.Status)

		require.Len(t, f.gw.refunds, 1)
		assert.Equal(t, "pay_test_123", f.gw.refunds[0].PaymentID)
		assert.Equal(t, int64(64025), f.gw.refunds[0].Amount)

		assert.Equal(t, bookings.StatusRefunded, f.bookingRepo.store[booking.ID].Status)
		assert.Equal(t, PaymentStatusRefunded, txn.PaymentStatus)
		assert.Equal(t, LegacyStatusRefunded, txn.Status)

		require.Len(t, f.paymentRepo.refunds, 1)
		app := f.paymentRepo.refunds[0]
		assert.Equal(t, booking.EventID, app.EventID)
		assert.Equal(t, 2, app.TicketCount)
		assert.Equal(t, "event cancelled", app.RefundReason)

		require.Len(t, f.producer.published, 1)
		assert.Equal(t, notifications.EventPaymentRefunded, f.producer.published[0].Type)
	})

	t.Run("refunds a partial amount when one is supplied", func(t *testing.T) {
		f := newFixture(t)
		booking, _ := confirmedBooking(f, userID, 640.25, 2)

		_, err := f.service.ProcessRefund(ctx, userID.String(), RefundRequest{
			BookingID: booking.ID.String(),
			Amount:    100.50,
		})
		require.NoError(t, err)

		require.Len(t, f.gw.refunds, 1)
		assert.Equal(t, int64(10050), f.gw.refunds[0].Amount)
		assert.Equal(t, 100.50, f.paymentRepo.refunds[0].RefundAmount)
	})

	t.Run("allows an elevated caller who does not own the booking", func(t *testing.T) {
		f := newFixture(t)
		booking, _ := confirmedBooking(f, userID, 300, 1)

		admin := &users.User{ID: uuid.New(), Role: users.RoleAdmin}
		f.userRepo.store[admin.ID] = admin

		_, err := f.service.ProcessRefund(ctx, admin.ID.String(), RefundRequest{
			BookingID: booking.ID.String(),
		})
		require.NoError(t, err)
	})

	t.Run("denies an ordinary caller who does not own the booking", func(t *testing.T) {
		f := newFixture(t)
		booking, _ := confirmedBooking(f, userID, 300, 1)

		stranger := &users.User{ID: uuid.New(), Role: users.RoleUser}
		f.userRepo.store[stranger.ID] = stranger

		_, err := f.service.ProcessRefund(ctx, stranger.ID.String(), RefundRequest{
			BookingID: booking.ID.String(),
		})
		assertCode(t, err, CodePermissionDenied)
		assert.Empty(t, f.gw.refunds)
	})

	t.Run("rejects a booking that is not confirmed", func(t *testing.T) {
		booking := pendingBooking(userID, 300, 1)
		f := newFixture(t, booking)

		_, err := f.service.ProcessRefund(ctx, userID.String(), RefundRequest{
			BookingID: booking.ID.String(),
		})
		assertCode(t, err, CodeFailedPrecondition)
	})

	t.Run("rejects a booking with no success transaction", func(t *testing.T) {
		booking := pendingBooking(userID, 300, 1)
		booking.Status = bookings.StatusConfirmed
		f := newFixture(t, booking)

		_, err := f.service.ProcessRefund(ctx, userID.String(), RefundRequest{
			BookingID: booking.ID.String(),
		})
		assertCode(t, err, CodeNotFound)
	})

	t.Run("falls back to the legacy gateway transaction id", func(t *testing.T) {
		f := newFixture(t)
		booking, txn := confirmedBooking(f, userID, 300, 1)
		txn.RazorpayPaymentID = ""
		txn.GatewayTransactionID = "pay_legacy_42"

		_, err := f.service.ProcessRefund(ctx, userID.String(), RefundRequest{
			BookingID: booking.ID.String(),
		})
		require.NoError(t, err)
		assert.Equal(t, "pay_legacy_42", f.gw.refunds[0].PaymentID)
	})

	t.Run("rejects a transaction with no payment id at all", func(t *testing.T) {
		f := newFixture(t)
		booking, txn := confirmedBooking(f, userID, 300, 1)
		txn.RazorpayPaymentID = ""
		txn.GatewayTransactionID = ""

		_, err := f.service.ProcessRefund(ctx, userID.String(), RefundRequest{
			BookingID: booking.ID.String(),
		})
		assertCode(t, err, CodeFailedPrecondition)
	})

	t.Run("restores at least one ticket for legacy bookings", func(t *testing.T) {
		f := newFixture(t)
		booking, _ := confirmedBooking(f, userID, 300, 1)

		// Legacy rows have neither line items nor a scalar count
		stored := f.bookingRepo.store[booking.ID]
		stored.Items = nil
		stored.TicketCount = 0

		_, err := f.service.ProcessRefund(ctx, userID.String(), RefundRequest{
			BookingID: booking.ID.String(),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, f.paymentRepo.refunds[0].TicketCount)
	})

	t.Run("uses the legacy scalar ticket count when line items are absent", func(t *testing.T) {
		f := newFixture(t)
		booking, _ := confirmedBooking(f, userID, 300, 1)

		stored := f.bookingRepo.store[booking.ID]
		stored.Items = nil
		stored.TicketCount = 4

		_, err := f.service.ProcessRefund(ctx, userID.String(), RefundRequest{
			BookingID: booking.ID.String(),
		})
		require.NoError(t, err)
		assert.Equal(t, 4, f.paymentRepo.refunds[0].TicketCount)
	})

	t.Run("surfaces gateway refund failures without touching the ledger", func(t *testing.T) {
		f := newFixture(t)
		booking, _ := confirmedBooking(f, userID, 300, 1)
		f.gw.refundErr = errors.New("refund rejected")

		_, err := f.service.ProcessRefund(ctx, userID.String(), RefundRequest{
			BookingID: booking.ID.String(),
		})
		assertCode(t, err, CodeInternal)
		assert.Equal(t, bookings.StatusConfirmed, f.bookingRepo.store[booking.ID].Status)
		assert.Empty(t, f.paymentRepo.refunds)
	})
}
