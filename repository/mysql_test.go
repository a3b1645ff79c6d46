package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"marketplace-service/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sql expectations: %v", err)
		}
		db.Close()
	})
	return NewMySQL(db), mock
}

func sqlText(s string) string { return regexp.QuoteMeta(s) }

var orderRowColumns = []string{
	"id", "user_id", "total_amount", "shipping_address_id", "payment_method",
	"payment_status", "status", "razorpay_order_id", "razorpay_payment_id", "razorpay_signature",
	"created_at", "updated_at",
}

func TestMySQLPayableOrdersExcludePaidOut(t *testing.T) {
	s, mock := newMockStore(t)
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(sqlText("FROM orders o WHERE o.payment_status = ? AND "+
		"NOT EXISTS (SELECT 1 FROM seller_payments sp WHERE sp.order_id = o.id) "+
		"ORDER BY o.created_at DESC LIMIT ?")).
		WithArgs("complete", 5).
		WillReturnRows(sqlmock.NewRows(orderRowColumns).
			AddRow("o1", "u1", 1000.0, "a1", "razorpay", "complete", "processing",
				"order_gw_1", "pay_1", "sig", created, created))
	mock.ExpectQuery(sqlText("SELECT order_id, product_id, quantity FROM order_items WHERE order_id IN (?) ORDER BY order_id, position")).
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows([]string{"order_id", "product_id", "quantity"}).
			AddRow("o1", "p1", 2))

	orders, err := s.Orders.List(context.Background(), OrderFilter{
		PaymentStatus:  models.PaymentStatusComplete,
		ExcludePaidOut: true,
		Limit:          5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 1 {
		t.Fatalf("orders %+v", orders)
	}
	o := orders[0]
	if o.PaymentStatus != models.PaymentStatusComplete || o.Status != models.OrderStatusProcessing {
		t.Fatalf("status %s/%s", o.Status, o.PaymentStatus)
	}
	if o.PaymentDetails == nil || o.PaymentDetails.RazorpayOrderID != "order_gw_1" {
		t.Fatalf("payment details %+v", o.PaymentDetails)
	}
	if len(o.Items) != 1 || o.Items[0].ProductID != "p1" || o.Items[0].Quantity != 2 {
		t.Fatalf("items %+v", o.Items)
	}
}

func TestMySQLClearItemsRunsInTransaction(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(sqlText("DELETE ci FROM cart_items ci JOIN carts c ON c.id = ci.cart_id WHERE c.user_id = ?")).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(sqlText("UPDATE carts SET updated_at = ? WHERE user_id = ?")).
		WithArgs(sqlmock.AnyArg(), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := s.Carts.ClearItems(context.Background(), "u1"); err != nil {
		t.Fatal(err)
	}
}

func TestMySQLClearItemsRollsBackOnError(t *testing.T) {
	s, mock := newMockStore(t)
	boom := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectExec(sqlText("DELETE ci FROM cart_items ci")).
		WithArgs("u1").
		WillReturnError(boom)
	mock.ExpectRollback()

	if err := s.Carts.ClearItems(context.Background(), "u1"); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestMySQLClearItemsJoinsOuterTransaction(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(sqlText("DELETE ci FROM cart_items ci")).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(sqlText("UPDATE carts SET updated_at = ?")).
		WithArgs(sqlmock.AnyArg(), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	fail := errors.New("later step failed")
	err := s.Tx.WithTransaction(context.Background(), func(ctx context.Context) error {
		if err := s.Carts.ClearItems(ctx, "u1"); err != nil {
			return err
		}
		return fail
	})
	if !errors.Is(err, fail) {
		t.Fatalf("err = %v, want %v", err, fail)
	}
}

func TestMySQLCartSaveUpserts(t *testing.T) {
	s, mock := newMockStore(t)
	created := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(sqlText("INSERT INTO carts (id, user_id, created_at, updated_at) VALUES (?, ?, ?, ?) " +
		"ON DUPLICATE KEY UPDATE updated_at = VALUES(updated_at)")).
		WithArgs(sqlmock.AnyArg(), "u1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(sqlText("SELECT id, created_at FROM carts WHERE user_id = ?")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("cart-1", created))
	mock.ExpectExec(sqlText("DELETE FROM cart_items WHERE cart_id = ?")).
		WithArgs("cart-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(sqlText("INSERT INTO cart_items (cart_id, product_id, quantity, position) VALUES (?, ?, ?, ?)")).
		WithArgs("cart-1", "p1", 2, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(sqlText("INSERT INTO cart_items (cart_id, product_id, quantity, position) VALUES (?, ?, ?, ?)")).
		WithArgs("cart-1", "p2", 1, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c := &models.Cart{UserID: "u1", Items: []models.CartItem{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 1}}}
	if err := s.Carts.Save(context.Background(), c); err != nil {
		t.Fatal(err)
	}
	if c.ID != "cart-1" || !c.CreatedAt.Equal(created) {
		t.Fatalf("cart keeps stored identity: %+v", c)
	}
}

func TestMySQLDuplicatePayout(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(sqlText("INSERT INTO seller_payments (")).
		WithArgs(sqlmock.AnyArg(), "seller-1", "o1", "p1", 500.0, "upi", "complete", "admin-1", "",
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'o1-p1' for key 'uq_seller_payments_order_product'"})

	err := s.SellerPayments.Create(context.Background(), &models.SellerPayment{
		SellerID:      "seller-1",
		OrderID:       "o1",
		ProductID:     "p1",
		Amount:        500,
		PaymentMethod: "upi",
		PaymentStatus: models.PaymentStatusComplete,
		ProcessedBy:   "admin-1",
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestMySQLOrderUpdateMissingRow(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(sqlText("UPDATE orders SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(sqlText("SELECT 1 FROM orders WHERE id = ?")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	err := s.Orders.Update(context.Background(), &models.Order{ID: "missing"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMySQLGatewayLookupSkipsEmptyID(t *testing.T) {
	s, _ := newMockStore(t)
	if _, err := s.Orders.GetByGatewayOrderID(context.Background(), ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
