//go:build !integration

package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"myCourseCompass/domain"
)

type fakeTransactionRepo struct {
	byRef map[string]domain.Transaction
	order []string
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{byRef: map[string]domain.Transaction{}}
}

func (f *fakeTransactionRepo) Create(ctx context.Context, txn *domain.Transaction) error {
	txn.ID = uint64(len(f.order) + 1)
	f.byRef[txn.Reference] = *txn
	f.order = append(f.order, txn.Reference)
	return nil
}

func (f *fakeTransactionRepo) FindByReference(ctx context.Context, reference string) (domain.Transaction, error) {
	txn, ok := f.byRef[reference]
	if !ok {
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}
	return txn, nil
}

func (f *fakeTransactionRepo) FindByUserID(ctx context.Context, userID uint) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for i := len(f.order) - 1; i >= 0; i-- {
		if txn := f.byRef[f.order[i]]; txn.UserID == userID {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (f *fakeTransactionRepo) UpdateStatus(ctx context.Context, reference, status, channel string, paidAt *time.Time) error {
	txn, ok := f.byRef[reference]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	txn.Status = status
	txn.Channel = channel
	txn.PaidAt = paidAt
	f.byRef[reference] = txn
	return nil
}

type fakeGateway struct {
	initErr      error
	verifyStatus string
	verifyCalls  int
	lastInit     domain.PaystackInitializeRequest
}

func (f *fakeGateway) InitializeTransaction(ctx context.Context, req domain.PaystackInitializeRequest) (domain.PaystackInitializeResponse, error) {
	f.lastInit = req
	var res domain.PaystackInitializeResponse
	if f.initErr != nil {
		return res, f.initErr
	}
	res.Status = true
	res.Data.AuthorizationURL = "https://checkout.paystack.com/abc"
	res.Data.AccessCode = "abc"
	res.Data.Reference = req.Reference
	return res, nil
}

func (f *fakeGateway) VerifyTransaction(ctx context.Context, reference string) (domain.PaystackVerifyResponse, error) {
	f.verifyCalls++
	return domain.PaystackVerifyResponse{
		Status: true,
		Data:   domain.PaystackTransactionData{Status: f.verifyStatus, Reference: reference, Channel: "mobile_money"},
	}, nil
}

type fakeUserRepo struct {
	users map[uint]domain.User
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uint) (domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindByIndexNumber(ctx context.Context, indexNumber string) (domain.User, error) {
	for _, u := range f.users {
		if u.IndexNumber != nil && *u.IndexNumber == indexNumber {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (f *fakeUserRepo) UpdatePaymentStatus(ctx context.Context, id uint, paid bool) error {
	u := f.users[id]
	u.PaymentStatus = paid
	f.users[id] = u
	return nil
}

type fakeNotifier struct {
	sent int
}

func (f *fakeNotifier) SendEmail(toName, toEmail, subject, message string) error {
	f.sent++
	return nil
}

type fixture struct {
	svc     *paymentsService
	txns    *fakeTransactionRepo
	gateway *fakeGateway
	users   *fakeUserRepo
	notif   *fakeNotifier
}

const testSecret = "sk_test_123"

func newFixture() fixture {
	index := "1234/12345"
	f := fixture{
		txns:    newFakeTransactionRepo(),
		gateway: &fakeGateway{verifyStatus: "success"},
		users: &fakeUserRepo{users: map[uint]domain.User{
			1: {ID: 1, FullName: "Amina Hassan", Email: "amina@example.com", IndexNumber: &index},
		}},
		notif: &fakeNotifier{},
	}
	f.svc = NewPaymentsService(f.txns, f.gateway, f.users, f.notif, Config{SecretKey: testSecret, Currency: "KES", AccessFee: 20000})
	return f
}

func sign(payload []byte) string {
	mac := hmac.New(sha512.New, []byte(testSecret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestInitializePayment(t *testing.T) {
	f := newFixture()

	init, err := f.svc.InitializePayment(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if init.AuthorizationURL == "" || init.Reference == "" {
		t.Errorf("init = %+v", init)
	}

	txn := f.txns.byRef[init.Reference]
	if txn.Status != domain.TransactionPending || txn.Amount != 20000 || txn.Currency != "KES" {
		t.Errorf("transaction = %+v", txn)
	}
	if f.gateway.lastInit.Email != "amina@example.com" || f.gateway.lastInit.Amount != 20000 {
		t.Errorf("gateway request = %+v", f.gateway.lastInit)
	}
}

func TestInitializePaymentGatewayFailure(t *testing.T) {
	f := newFixture()
	f.gateway.initErr = errors.New("timeout")

	_, err := f.svc.InitializePayment(context.Background(), 1)
	if !errors.Is(err, ErrGateway) {
		t.Fatalf("err = %v, want gateway error", err)
	}

	txn := f.txns.byRef[f.txns.order[0]]
	if txn.Status != domain.TransactionFailed {
		t.Errorf("status = %s, want failed", txn.Status)
	}
}

func TestInitializePaymentAlreadyPaid(t *testing.T) {
	f := newFixture()
	_ = f.users.UpdatePaymentStatus(context.Background(), 1, true)

	if _, err := f.svc.InitializePayment(context.Background(), 1); !errors.Is(err, ErrAlreadyPaid) {
		t.Errorf("err = %v, want already paid", err)
	}
}

func TestVerifyPaymentIsIdempotent(t *testing.T) {
	f := newFixture()
	init, _ := f.svc.InitializePayment(context.Background(), 1)

	first, err := f.svc.VerifyPayment(context.Background(), 1, init.Reference)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.AlreadyVerified || first.Transaction.Status != domain.TransactionCompleted || !first.User.PaymentStatus {
		t.Errorf("first verification = %+v", first)
	}
	if f.notif.sent != 1 {
		t.Errorf("emails sent = %d, want 1", f.notif.sent)
	}

	second, err := f.svc.VerifyPayment(context.Background(), 1, init.Reference)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.AlreadyVerified || f.gateway.verifyCalls != 1 || f.notif.sent != 1 {
		t.Errorf("second verification hit the gateway again: %+v", second)
	}
}

func TestVerifyPaymentFailedCharge(t *testing.T) {
	f := newFixture()
	f.gateway.verifyStatus = "abandoned"
	init, _ := f.svc.InitializePayment(context.Background(), 1)

	res, err := f.svc.VerifyPayment(context.Background(), 1, init.Reference)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Transaction.Status != domain.TransactionFailed || f.users.users[1].PaymentStatus {
		t.Errorf("verification = %+v", res)
	}
}

func TestVerifyPaymentOtherUsersReference(t *testing.T) {
	f := newFixture()
	init, _ := f.svc.InitializePayment(context.Background(), 1)

	if _, err := f.svc.VerifyPayment(context.Background(), 2, init.Reference); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestHandleWebhook(t *testing.T) {
	f := newFixture()
	init, _ := f.svc.InitializePayment(context.Background(), 1)

	payload := []byte(`{"event":"charge.success","data":{"status":"success","reference":"` + init.Reference + `","channel":"card","amount":20000}}`)

	if err := f.svc.HandleWebhook(context.Background(), payload, "deadbeef"); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("err = %v, want invalid signature", err)
	}

	if err := f.svc.HandleWebhook(context.Background(), payload, sign(payload)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if txn := f.txns.byRef[init.Reference]; txn.Status != domain.TransactionCompleted || txn.Channel != "card" {
		t.Errorf("transaction = %+v", txn)
	}
	if !f.users.users[1].PaymentStatus {
		t.Error("user not marked as paid")
	}

	// replays are acknowledged without a second email
	if err := f.svc.HandleWebhook(context.Background(), payload, sign(payload)); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if f.notif.sent != 1 {
		t.Errorf("emails sent = %d, want 1", f.notif.sent)
	}

	unknown := []byte(`{"event":"charge.success","data":{"reference":"TXN_0_NOPE"}}`)
	if err := f.svc.HandleWebhook(context.Background(), unknown, sign(unknown)); err != nil {
		t.Errorf("unknown reference: %v", err)
	}

	other := []byte(`{"event":"transfer.success","data":{}}`)
	if err := f.svc.HandleWebhook(context.Background(), other, sign(other)); err != nil {
		t.Errorf("other event: %v", err)
	}
}

func TestPaymentStatus(t *testing.T) {
	f := newFixture()

	status, err := f.svc.GetPaymentStatus(context.Background(), 1)
	if err != nil || status.HasPaid || status.Status != "none" {
		t.Fatalf("status = %+v, err = %v", status, err)
	}

	init, _ := f.svc.InitializePayment(context.Background(), 1)
	status, _ = f.svc.GetPaymentStatus(context.Background(), 1)
	if status.Status != domain.TransactionPending {
		t.Errorf("status = %+v, want pending", status)
	}

	_, _ = f.svc.VerifyPayment(context.Background(), 1, init.Reference)
	paid, err := f.svc.HasPaid(context.Background(), 1)
	if err != nil || !paid {
		t.Errorf("HasPaid = %v, %v", paid, err)
	}
}

func TestVerifyExistingPayment(t *testing.T) {
	f := newFixture()
	_ = f.users.UpdatePaymentStatus(context.Background(), 1, true)

	status, err := f.svc.VerifyExistingPayment(context.Background(), "1234/12345", "AMINA@example.com")
	if err != nil || !status.HasPaid {
		t.Errorf("status = %+v, err = %v", status, err)
	}

	if _, err := f.svc.VerifyExistingPayment(context.Background(), "1234/12345", "someone@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("err = %v, want user not found", err)
	}
}
