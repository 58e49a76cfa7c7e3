package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theclub367services-boop/club369/internal/models"
)

func TestStorage_CreateUser_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	uid, err := storage.CreateUser(ctx, models.User{
		Name:             "Ivan Petrov",
		Email:            "ivan@example.com",
		Mobile:           "+79990001122",
		PasswordHash:     "hashedpassword",
		Role:             models.RoleUser,
		Status:           models.StatusPending,
		MembershipStatus: models.MembershipNone,
	})
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	got, err := storage.GetUser(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "Ivan Petrov", got.Name)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, models.MembershipNone, got.MembershipStatus)
	assert.Nil(t, got.MembershipEndDate)

	// повторная регистрация на тот же email
	_, err = storage.CreateUser(ctx, models.User{
		Name:             "Impostor",
		Email:            "ivan@example.com",
		PasswordHash:     "hashedpassword",
		Role:             models.RoleUser,
		Status:           models.StatusPending,
		MembershipStatus: models.MembershipNone,
	})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestStorage_GetUserByEmail_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "Anna", "anna@example.com", models.RoleUser, models.StatusActive)

	ctx := context.Background()

	got, err := storage.GetUserByEmail(ctx, "anna@example.com")
	require.NoError(t, err)
	assert.Equal(t, uid, got.UID)
	assert.Equal(t, "Anna", got.Name)

	_, err = storage.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_UpdateProfile_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "Old Name", "member@example.com", models.RoleUser, models.StatusActive)

	ctx := context.Background()

	updated, err := storage.UpdateProfile(ctx, uid, "New Name", "")
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Empty(t, updated.Mobile)

	updated, err = storage.UpdateProfile(ctx, uid, "", "+79990003344")
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name, "empty name must not overwrite the stored one")
	assert.Equal(t, "+79990003344", updated.Mobile)

	_, err = storage.UpdateProfile(ctx, "00000000-0000-0000-0000-000000000000", "X", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_ActivateMembership_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "Pending Pete", "pete@example.com", models.RoleUser, models.StatusPending)

	ctx := context.Background()
	until := time.Now().AddDate(0, 1, 0).UTC().Truncate(time.Second)

	require.NoError(t, storage.ActivateMembership(ctx, uid, until))

	got, err := storage.GetUser(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, got.Status)
	assert.Equal(t, models.MembershipActive, got.MembershipStatus)
	require.NotNil(t, got.MembershipEndDate)
	assert.WithinDuration(t, until, *got.MembershipEndDate, time.Second)
}

func TestStorage_ExpireLapsedMemberships_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	lapsedUID := factory.CreateMember(t, "Lapsed", "lapsed@example.com", time.Now().AddDate(0, 0, -2))
	currentUID := factory.CreateMember(t, "Current", "current@example.com", time.Now().AddDate(0, 0, 10))

	ctx := context.Background()

	affected, err := storage.ExpireLapsedMemberships(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, affected)

	lapsed, err := storage.GetUser(ctx, lapsedUID)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipExpired, lapsed.MembershipStatus)

	current, err := storage.GetUser(ctx, currentUID)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipActive, current.MembershipStatus)
}

func TestStorage_FindMembershipsExpiringWithin_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	soonUID := factory.CreateMember(t, "Soon", "soon@example.com", time.Now().AddDate(0, 0, 3))
	factory.CreateMember(t, "Later", "later@example.com", time.Now().AddDate(0, 0, 30))

	ctx := context.Background()

	expiring, err := storage.FindMembershipsExpiringWithin(ctx, 5)
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, soonUID, expiring[0].UID)
}

func TestStorage_ClaimVoucher_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "Claimer", "claimer@example.com", models.RoleUser, models.StatusActive)
	voucherID := factory.CreateVoucher(t, "Free Coffee", "COFFEE1", true)

	ctx := context.Background()

	require.NoError(t, storage.ClaimVoucher(ctx, voucherID, userUID))

	// вторая попытка того же пользователя проигрывает первой
	err := storage.ClaimVoucher(ctx, voucherID, userUID)
	assert.ErrorIs(t, err, ErrAlreadyClaimed)

	claimed, err := storage.ListClaimedVoucherIDs(ctx, userUID)
	require.NoError(t, err)
	assert.True(t, claimed[voucherID])
	assert.Len(t, claimed, 1)

	// другой пользователь может забрать тот же ваучер
	otherUID := factory.CreateUser(t, "Other", "other@example.com", models.RoleUser, models.StatusActive)
	assert.NoError(t, storage.ClaimVoucher(ctx, voucherID, otherUID))
}

func TestStorage_ListVouchers_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	activeID := factory.CreateVoucher(t, "Active", "ACT1", true)
	factory.CreateVoucher(t, "Disabled", "DIS1", false)

	ctx := context.Background()

	all, err := storage.ListVouchers(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := storage.ListVouchers(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, activeID, active[0].ID)
}

func TestStorage_ToggleVoucher_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	voucherID := factory.CreateVoucher(t, "Switchable", "SW1", true)

	ctx := context.Background()

	isActive, err := storage.ToggleVoucher(ctx, voucherID)
	require.NoError(t, err)
	assert.False(t, isActive)

	isActive, err = storage.ToggleVoucher(ctx, voucherID)
	require.NoError(t, err)
	assert.True(t, isActive)

	_, err = storage.ToggleVoucher(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_Transactions_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "Payer", "payer@example.com", models.RoleUser, models.StatusActive)

	ctx := context.Background()

	txID, err := storage.CreateTransaction(ctx, models.Transaction{
		User:   userUID,
		Amount: 36900,
		Status: models.TransactionSuccess,
		Method: "razorpay",
	})
	require.NoError(t, err)
	require.NotEmpty(t, txID)

	factory.CreateTransaction(t, userUID, 36900, models.TransactionFailed, time.Now().Add(-time.Hour))
	factory.CreateTransaction(t, userUID, 12345, models.TransactionSuccess, time.Now().AddDate(0, -2, 0))

	list, err := storage.ListTransactionsByUser(ctx, userUID, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, txID, list[0].ID, "newest first")

	page, err := storage.ListTransactionsByUser(ctx, userUID, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	// сумма за последний месяц не включает старый и неуспешный платежи
	total, err := storage.SumCollectedSince(ctx, time.Now().AddDate(0, -1, 0))
	require.NoError(t, err)
	assert.Equal(t, 36900, total)
}

func TestStorage_PaymentOrders_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "Buyer", "buyer@example.com", models.RoleUser, models.StatusPending)

	ctx := context.Background()

	orderID, err := storage.CreateOrder(ctx, models.PaymentOrder{
		UserUID:        userUID,
		GatewayOrderID: "order_gw_777",
		Amount:         36900,
		Currency:       "INR",
		Status:         models.OrderCreated,
	})
	require.NoError(t, err)
	require.NotEmpty(t, orderID)

	got, err := storage.GetOrderByGatewayID(ctx, "order_gw_777")
	require.NoError(t, err)
	assert.Equal(t, orderID, got.ID)
	assert.Equal(t, userUID, got.UserUID)
	assert.Equal(t, models.OrderCreated, got.Status)

	require.NoError(t, storage.UpdateOrderStatus(ctx, orderID, models.OrderPaid))

	got, err = storage.GetOrderByGatewayID(ctx, "order_gw_777")
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, got.Status)

	_, err = storage.GetOrderByGatewayID(ctx, "order_gw_missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = storage.UpdateOrderStatus(ctx, "00000000-0000-0000-0000-000000000000", models.OrderFailed)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckDatabaseReady_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	assert.NoError(t, CheckDatabaseReady(storage))
}
