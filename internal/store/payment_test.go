package store

import (
	"context"
	"testing"

	"ngosocial/internal/apperr"
	"ngosocial/internal/engagement"
	"ngosocial/internal/models"
	"ngosocial/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordDonationIsIdempotent(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	testutil.CreateUser(t, s.db, "donor")
	c := seedCampaign(t, s, engagement.Ngo("n1"))

	d := Donation{
		GatewayTransactionID: "pi_123",
		Amount:               250,
		Currency:             "inr",
		Status:               "SUCCESS",
		Donor:                engagement.User("donor"),
		CampaignID:           c.ID,
	}
	recorded, err := s.RecordDonation(ctx, d)
	require.NoError(t, err)
	assert.True(t, recorded)

	recorded, err = s.RecordDonation(ctx, d)
	require.NoError(t, err)
	assert.False(t, recorded, "redelivery must not credit twice")

	assert.EqualValues(t, 1, countRows(t, s, &models.Transaction{}, "gateway_transaction_id = ?", "pi_123"))
	assert.EqualValues(t, 1, countRows(t, s, &models.PointLog{}, "user_id = ?", "donor"))

	u, err := s.FindUser(ctx, "donor")
	require.NoError(t, err)
	assert.InDelta(t, 250, u.Points, 1e-9)

	loaded, err := s.FindCampaign(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Transactions, 1)
	assert.Nil(t, loaded.Transactions[0].FundRaisingID)
}

func TestRecordDonationValidates(t *testing.T) {
	s := newStore(t)
	_, err := s.RecordDonation(context.Background(), Donation{Donor: engagement.User("u")})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestAddPointsForNgo(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	testutil.CreateNgo(t, s.db, "n1")

	require.NoError(t, s.AddPoints(ctx, engagement.Ngo("n1"), 0.002, "issue comment"))
	require.NoError(t, s.AddPoints(ctx, engagement.Ngo("n1"), 0.002, "issue comment"))

	n, err := s.FindNgo(ctx, "n1")
	require.NoError(t, err)
	assert.InDelta(t, 0.004, n.Points, 1e-9)

	count, err := s.CountTodayPointLogs(ctx, engagement.Ngo("n1"), "issue comment")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	count, err = s.CountTodayPointLogs(ctx, engagement.User("n1"), "issue comment")
	require.NoError(t, err)
	assert.Zero(t, count)
}
