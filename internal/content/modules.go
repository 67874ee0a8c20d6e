package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/engmhisham/utg-api/database/models"
	"github.com/engmhisham/utg-api/internal/reconcile"
)

// 各实体的媒体引用字段
var (
	BlogMedia = reconcile.Spec{ModuleType: "blogs", Fields: []reconcile.Field{
		reconcile.Direct("coverImageUrl"),
		reconcile.RichText("content_en"),
		reconcile.RichText("content_ar"),
	}}
	BrandMedia = reconcile.Spec{ModuleType: "brands", Fields: []reconcile.Field{
		reconcile.Direct("logoUrl"),
	}}
	ClientMedia = reconcile.Spec{ModuleType: "clients", Fields: []reconcile.Field{
		reconcile.Direct("logoUrl"),
	}}
	TestimonialMedia = reconcile.Spec{ModuleType: "testimonials", Fields: []reconcile.Field{
		reconcile.Direct("logoUrl"),
		reconcile.Direct("coverImageUrl"),
	}}
	TeamMedia = reconcile.Spec{ModuleType: "team", Fields: []reconcile.Field{
		reconcile.Direct("coverImageUrl"),
	}}
	LocationMedia = reconcile.Spec{ModuleType: "locations", Fields: []reconcile.Field{
		reconcile.Direct("cover"),
		reconcile.RichText("content_en"),
		reconcile.RichText("content_ar"),
	}}
	ProjectMedia = reconcile.Spec{ModuleType: "projects", Fields: []reconcile.Field{
		reconcile.Direct("image1Url"),
		reconcile.Direct("image2Url"),
		reconcile.Direct("image3Url"),
		reconcile.Direct("image4Url"),
	}}
)

var orderedSort = []string{"display_order", "created_at", "updated_at"}

// required 检查必填文本
func required(fields map[string]string) error {
	var missing []string
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s is required", ErrInvalid, strings.Join(missing, ", "))
	}
	return nil
}

func NewBrands(deps Deps) *Service[models.Brand] {
	return New(deps, Options[models.Brand]{
		Entity:        "brands",
		Media:         &BrandMedia,
		SearchColumns: []string{"name_en", "name_ar"},
		SortColumns:   append(orderedSort, "name_en"),
		DefaultSort:   "display_order",
		DefaultOrder:  "asc",
		Statuses:      ActiveStatuses,
		Ordered:       true,
		BeforeSave: func(_ context.Context, e *models.Brand, _ *models.Brand) error {
			return required(map[string]string{"name.en": e.Name.EN})
		},
	})
}

func NewClients(deps Deps) *Service[models.Client] {
	return New(deps, Options[models.Client]{
		Entity:        "clients",
		Media:         &ClientMedia,
		SearchColumns: []string{"title_en", "title_ar"},
		SortColumns:   append(orderedSort, "title_en"),
		DefaultSort:   "display_order",
		DefaultOrder:  "asc",
		Statuses:      ActiveStatuses,
		Ordered:       true,
		BeforeSave: func(_ context.Context, e *models.Client, _ *models.Client) error {
			return required(map[string]string{"title.en": e.Title.EN})
		},
	})
}

func NewTestimonials(deps Deps) *Service[models.Testimonial] {
	return New(deps, Options[models.Testimonial]{
		Entity:        "testimonials",
		Media:         &TestimonialMedia,
		SearchColumns: []string{"name_en", "name_ar", "company_en", "content_en"},
		SortColumns:   append(orderedSort, "name_en"),
		DefaultSort:   "display_order",
		DefaultOrder:  "asc",
		Statuses:      EditorialStatuses,
		Ordered:       true,
		BeforeSave: func(_ context.Context, e *models.Testimonial, _ *models.Testimonial) error {
			return required(map[string]string{"name.en": e.Name.EN, "content.en": e.Content.EN})
		},
	})
}

func NewTeam(deps Deps) *Service[models.TeamMember] {
	return New(deps, Options[models.TeamMember]{
		Entity:        "team",
		Media:         &TeamMedia,
		SearchColumns: []string{"name_en", "name_ar", "title_en"},
		SortColumns:   append(orderedSort, "name_en"),
		DefaultSort:   "display_order",
		DefaultOrder:  "asc",
		Statuses:      ActiveStatuses,
		Ordered:       true,
		BeforeSave: func(_ context.Context, e *models.TeamMember, _ *models.TeamMember) error {
			return required(map[string]string{"name.en": e.Name.EN})
		},
	})
}

func NewProjects(deps Deps) *Service[models.Project] {
	return New(deps, Options[models.Project]{
		Entity:        "projects",
		Media:         &ProjectMedia,
		SearchColumns: []string{"title_en", "title_ar", "description_en"},
		SortColumns:   append(orderedSort, "title_en"),
		DefaultSort:   "display_order",
		DefaultOrder:  "asc",
		Statuses:      ActiveStatuses,
		Ordered:       true,
		BeforeSave: func(_ context.Context, e *models.Project, _ *models.Project) error {
			return required(map[string]string{"title.en": e.Title.EN})
		},
	})
}

func NewFAQs(deps Deps) *Service[models.FAQ] {
	return New(deps, Options[models.FAQ]{
		Entity:        "faqs",
		SearchColumns: []string{"question_en", "question_ar", "answer_en"},
		SortColumns:   append(orderedSort, "category"),
		DefaultSort:   "display_order",
		DefaultOrder:  "asc",
		Statuses:      ActiveStatuses,
		Ordered:       true,
		BeforeSave: func(_ context.Context, e *models.FAQ, _ *models.FAQ) error {
			return required(map[string]string{"question.en": e.Question.EN, "answer.en": e.Answer.EN})
		},
	})
}

func NewLocations(deps Deps) *Service[models.Location] {
	svc := New(deps, Options[models.Location]{
		Entity:        "locations",
		Media:         &LocationMedia,
		SearchColumns: []string{"title_en", "title_ar", "city_en"},
		SortColumns:   append(orderedSort, "title_en", "slug"),
		DefaultSort:   "display_order",
		DefaultOrder:  "asc",
		Statuses:      EditorialStatuses,
		Ordered:       true,
	})
	svc.opts.BeforeSave = func(ctx context.Context, e *models.Location, _ *models.Location) error {
		if err := required(map[string]string{"title.en": e.Title.EN}); err != nil {
			return err
		}
		slug, err := svc.UniqueSlug(ctx, e.Slug, e.Title.EN, e.ID)
		if err != nil {
			return err
		}
		e.Slug = slug
		return nil
	}
	return svc
}

func NewCategories(deps Deps) *Service[models.Category] {
	svc := New(deps, Options[models.Category]{
		Entity:        "categories",
		SearchColumns: []string{"name_en", "name_ar", "slug"},
		SortColumns:   []string{"name_en", "slug", "created_at"},
		DefaultSort:   "name_en",
		DefaultOrder:  "asc",
	})
	svc.opts.BeforeSave = func(ctx context.Context, e *models.Category, _ *models.Category) error {
		if err := required(map[string]string{"name.en": e.Name.EN}); err != nil {
			return err
		}
		slug, err := svc.UniqueSlug(ctx, e.Slug, e.Name.EN, e.ID)
		if err != nil {
			return err
		}
		e.Slug = slug
		return nil
	}
	return svc
}
