package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engmhisham/utg-api/database/dbtest"
	"github.com/engmhisham/utg-api/database/models"
)

func TestService_RecordAndList(t *testing.T) {
	svc := NewService(dbtest.New(t))
	ctx := WithActor(context.Background(), Actor{UserID: "u1", Username: "admin", IP: "10.0.0.1", UserAgent: "test"})

	svc.Record(ctx, models.AuditCreate, "brands", "b1", nil, map[string]string{"name": "Acme"})
	svc.Record(ctx, models.AuditUpdate, "brands", "b1", map[string]string{"name": "Acme"}, map[string]string{"name": "Acme Co"})
	svc.Record(context.Background(), models.AuditDelete, "faqs", "f1", map[string]string{"q": "?"}, nil)

	page, err := svc.List(context.Background(), Query{Entity: "brands"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	page, err = svc.List(context.Background(), Query{Action: string(models.AuditDelete)})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Empty(t, page.Items[0].UserID)

	page, err = svc.List(context.Background(), Query{UserID: "u1", Action: string(models.AuditUpdate)})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	entry := page.Items[0]
	assert.Equal(t, "admin", entry.Username)
	assert.Equal(t, "10.0.0.1", entry.IPAddress)
	assert.JSONEq(t, `{"name":"Acme Co"}`, string(entry.NewValues))

	got, err := svc.Get(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "b1", got.EntityID)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	future := time.Now().Add(time.Hour)
	page, err = svc.List(context.Background(), Query{From: &future})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}
