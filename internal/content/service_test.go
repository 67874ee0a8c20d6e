package content

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engmhisham/utg-api/database"
	"github.com/engmhisham/utg-api/database/dbtest"
	"github.com/engmhisham/utg-api/database/models"
	"github.com/engmhisham/utg-api/database/repo/base"
	mediarepo "github.com/engmhisham/utg-api/database/repo/media"
	"github.com/engmhisham/utg-api/internal/audit"
	"github.com/engmhisham/utg-api/internal/media"
	"github.com/engmhisham/utg-api/internal/reconcile"
	"github.com/engmhisham/utg-api/storage"
)

type env struct {
	db    database.Provider
	media *media.Store
	audit *audit.Service
	deps  Deps
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := dbtest.New(t)
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	store := media.NewStore(mediarepo.NewRepository(db), local, media.Options{APIPrefix: "api", UploadPrefix: "uploads"})
	auditSvc := audit.NewService(db)
	return &env{
		db:    db,
		media: store,
		audit: auditSvc,
		deps:  Deps{DB: db, Reconcile: reconcile.New(store), Audit: auditSvc},
	}
}

func (e *env) upload(t *testing.T, name string) *models.Media {
	t.Helper()
	tmp := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(tmp, []byte("GIF89a"), 0644))
	m, err := e.media.Create(context.Background(), media.Upload{TempPath: tmp, OriginalName: name, MimeType: "image/gif", Size: 6}, media.Metadata{})
	require.NoError(t, err)
	return m
}

func TestService_CreateRegistersUsage(t *testing.T) {
	e := newEnv(t)
	svc := NewBrands(e.deps)
	ctx := context.Background()
	logo := e.upload(t, "logo.gif")

	brand := &models.Brand{Name: models.Localized{EN: "Acme"}, LogoURL: logo.URL}
	require.NoError(t, svc.Create(ctx, brand))
	require.NotEmpty(t, brand.ID)
	assert.Equal(t, models.StatusActive, brand.Status)

	got, err := e.media.Get(ctx, logo.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.MediaUsage{{ModuleType: "brands", ModuleID: brand.ID, Field: "logoUrl"}}, []models.MediaUsage(got.Usage))

	logs, err := e.audit.List(ctx, audit.Query{Entity: "brands", Action: string(models.AuditCreate)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), logs.Total)
}

func TestService_CreateValidation(t *testing.T) {
	svc := NewBrands(newEnv(t).deps)

	err := svc.Create(context.Background(), &models.Brand{})
	assert.ErrorIs(t, err, ErrInvalid)

	err = svc.Create(context.Background(), &models.Brand{Name: models.Localized{EN: "x"}, Status: "bogus"})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestService_UpdatePartial(t *testing.T) {
	e := newEnv(t)
	svc := NewBrands(e.deps)
	ctx := context.Background()
	oldLogo := e.upload(t, "old.gif")
	newLogo := e.upload(t, "new.gif")

	brand := &models.Brand{Name: models.Localized{EN: "Acme", AR: "أكمي"}, LogoURL: oldLogo.URL}
	require.NoError(t, svc.Create(ctx, brand))

	body := []byte(`{"id":"hijack","name":{"en":"Acme Co"},"logoUrl":"` + newLogo.URL + `"}`)
	updated, err := svc.Update(ctx, brand.ID, func(b *models.Brand) error {
		return json.Unmarshal(body, b)
	})
	require.NoError(t, err)
	assert.Equal(t, brand.ID, updated.ID)
	assert.Equal(t, "Acme Co", updated.Name.EN)
	assert.Equal(t, "أكمي", updated.Name.AR)

	_, err = e.media.Get(ctx, oldLogo.ID)
	assert.ErrorIs(t, err, media.ErrNotFound)
	got, err := e.media.Get(ctx, newLogo.ID)
	require.NoError(t, err)
	assert.Len(t, got.Usage, 1)

	_, err = svc.Update(ctx, "missing", func(*models.Brand) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_StatusAndPublicVisibility(t *testing.T) {
	svc := NewTestimonials(newEnv(t).deps)
	ctx := context.Background()

	item := &models.Testimonial{Name: models.Localized{EN: "Jane"}, Content: models.Localized{EN: "Great"}}
	require.NoError(t, svc.Create(ctx, item))
	assert.Equal(t, models.StatusDraft, item.Status)

	_, err := svc.Get(ctx, item.ID, true)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateStatus(ctx, item.ID, models.StatusActive)
	assert.ErrorIs(t, err, ErrInvalid)

	updated, err := svc.UpdateStatus(ctx, item.ID, models.StatusPublished)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, updated.Status)

	page, err := svc.List(ctx, ListQuery{Public: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	_, err = svc.List(ctx, ListQuery{Status: "weird"})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestService_ListSearchAndSort(t *testing.T) {
	svc := NewFAQs(newEnv(t).deps)
	ctx := context.Background()
	for i, q := range []string{"Shipping times", "Refund policy", "Shipping costs"} {
		require.NoError(t, svc.Create(ctx, &models.FAQ{
			Question:     models.Localized{EN: q},
			Answer:       models.Localized{EN: "..."},
			DisplayOrder: 3 - i,
		}))
	}

	page, err := svc.List(ctx, ListQuery{Search: "shipping"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	page, err = svc.List(ctx, ListQuery{ListOptions: base.ListOptions{SortBy: "question_en; DROP TABLE faqs"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "Shipping costs", page.Items[0].Question.EN)
}

func TestService_Reorder(t *testing.T) {
	svc := NewTeam(newEnv(t).deps)
	ctx := context.Background()
	a := &models.TeamMember{Name: models.Localized{EN: "A"}}
	b := &models.TeamMember{Name: models.Localized{EN: "B"}, DisplayOrder: 1}
	require.NoError(t, svc.Create(ctx, a))
	require.NoError(t, svc.Create(ctx, b))

	require.NoError(t, svc.Reorder(ctx, []base.OrderItem{{ID: a.ID, DisplayOrder: 5}, {ID: b.ID, DisplayOrder: 0}}))

	page, err := svc.List(ctx, ListQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, b.ID, page.Items[0].ID)

	assert.ErrorIs(t, NewCategories(Deps{DB: newEnv(t).db}).Reorder(ctx, []base.OrderItem{{ID: "x"}}), ErrInvalid)
}

func TestService_DeleteReleasesMedia(t *testing.T) {
	e := newEnv(t)
	svc := NewProjects(e.deps)
	ctx := context.Background()
	shared := e.upload(t, "shared.gif")
	own := e.upload(t, "own.gif")

	p1 := &models.Project{Title: models.Localized{EN: "One"}, Image1URL: shared.URL, Image2URL: own.URL}
	p2 := &models.Project{Title: models.Localized{EN: "Two"}, Image1URL: shared.URL}
	require.NoError(t, svc.Create(ctx, p1))
	require.NoError(t, svc.Create(ctx, p2))

	res, err := svc.Bulk(ctx, BulkRequest{IDs: []string{p1.ID, "missing"}, Action: BulkDelete})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Affected)
	assert.Equal(t, []string{"missing"}, res.Missing)

	_, err = e.media.Get(ctx, own.ID)
	assert.ErrorIs(t, err, media.ErrNotFound)
	got, err := e.media.Get(ctx, shared.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.MediaUsage{{ModuleType: "projects", ModuleID: p2.ID, Field: "image1Url"}}, []models.MediaUsage(got.Usage))

	assert.ErrorIs(t, svc.Delete(ctx, p1.ID), ErrNotFound)
}

func TestService_BulkStatus(t *testing.T) {
	svc := NewClients(newEnv(t).deps)
	ctx := context.Background()
	c := &models.Client{Title: models.Localized{EN: "C"}}
	require.NoError(t, svc.Create(ctx, c))

	res, err := svc.Bulk(ctx, BulkRequest{IDs: []string{c.ID}, Action: BulkStatus, Status: models.StatusInactive})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Affected)

	got, err := svc.Get(ctx, c.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInactive, got.Status)

	_, err = svc.Bulk(ctx, BulkRequest{IDs: []string{c.ID}, Action: BulkStatus, Status: models.StatusPublished})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestService_LocationSlug(t *testing.T) {
	svc := NewLocations(newEnv(t).deps)
	ctx := context.Background()

	first := &models.Location{Title: models.Localized{EN: "Riyadh Office"}}
	require.NoError(t, svc.Create(ctx, first))
	assert.Equal(t, "riyadh-office", first.Slug)

	err := svc.Create(ctx, &models.Location{Title: models.Localized{EN: "Riyadh  office!"}})
	assert.ErrorIs(t, err, ErrConflict)

	err = svc.Create(ctx, &models.Location{Title: models.Localized{EN: "X"}, Slug: "Not A Slug"})
	assert.ErrorIs(t, err, ErrInvalid)

	// 保存自身时不与自己冲突
	_, err = svc.Update(ctx, first.ID, func(l *models.Location) error {
		l.City.EN = "Riyadh"
		return nil
	})
	require.NoError(t, err)

	got, err := svc.FindBy(ctx, "slug", "riyadh-office", false)
	require.NoError(t, err)
	assert.Equal(t, "Riyadh", got.City.EN)
}

func blockDoc(urls ...string) string {
	out := `{"blocks":[`
	for i, u := range urls {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf(`{"type":"image","data":{"file":{"url":%q}}}`, u)
	}
	return out + "]}"
}

func TestService_UpdateKeepsMediaAcrossURLForms(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u1 := e.upload(t, "u1.gif")
	u2 := e.upload(t, "u2.gif")
	u3 := e.upload(t, "u3.gif")
	contentUsage := func(id string) []models.MediaUsage {
		return []models.MediaUsage{{ModuleType: "locations", ModuleID: id, Field: "content_en"}}
	}

	locations := NewLocations(e.deps)
	loc := &models.Location{
		Title:   models.Localized{EN: "Jeddah"},
		Content: models.Localized{EN: blockDoc(u1.URL, "https://x.com/api"+u2.URL)},
	}
	require.NoError(t, locations.Create(ctx, loc))

	_, err := locations.Update(ctx, loc.ID, func(l *models.Location) error {
		l.Content.EN = blockDoc(u2.URL, u3.URL)
		return nil
	})
	require.NoError(t, err)

	_, err = e.media.Get(ctx, u1.ID)
	assert.ErrorIs(t, err, media.ErrNotFound)
	got, err := e.media.Get(ctx, u2.ID)
	require.NoError(t, err)
	assert.Equal(t, contentUsage(loc.ID), []models.MediaUsage(got.Usage))
	got, err = e.media.Get(ctx, u3.ID)
	require.NoError(t, err)
	assert.Equal(t, contentUsage(loc.ID), []models.MediaUsage(got.Usage))

	projects := NewProjects(e.deps)
	a := e.upload(t, "a.gif")
	p := &models.Project{Title: models.Localized{EN: "P"}, Image1URL: a.URL}
	require.NoError(t, projects.Create(ctx, p))

	_, err = projects.Update(ctx, p.ID, func(pr *models.Project) error {
		pr.Image1URL = ""
		pr.Image2URL = "https://cdn.example.com" + a.URL
		return nil
	})
	require.NoError(t, err)

	got, err = e.media.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.MediaUsage{{ModuleType: "projects", ModuleID: p.ID, Field: "image2Url"}}, []models.MediaUsage(got.Usage))
}
