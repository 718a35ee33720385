package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fixdesk/internal/models"
)

// ContentStore backs the marketing site and the back-office content
// sections: categories, blog, knowledge base, leads, testimonials and
// site settings.
type ContentStore struct{ db *gorm.DB }

func NewContentStore(db *gorm.DB) *ContentStore { return &ContentStore{db: db} }

// ---------- categories ----------

func (s *ContentStore) ActiveCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := s.db.WithContext(ctx).Where("is_active = ?", true).
		Order("sort_order asc, name asc").Find(&out).Error
	return out, err
}

func (s *ContentStore) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := s.db.WithContext(ctx).Order("sort_order asc, id asc").Find(&out).Error
	return out, err
}

func (s *ContentStore) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	err := s.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &c, err
}

func (s *ContentStore) SaveCategory(ctx context.Context, c *models.Category) error {
	return s.db.WithContext(ctx).Save(c).Error
}

func (s *ContentStore) DeleteCategory(ctx context.Context, id uint) error {
	return deleteByID[models.Category](ctx, s.db, id)
}

// ---------- blog ----------

func (s *ContentStore) PublishedPosts(ctx context.Context) ([]models.BlogPost, error) {
	var out []models.BlogPost
	err := s.db.WithContext(ctx).Where("is_published = ?", true).
		Order("published_at desc").Find(&out).Error
	return out, err
}

func (s *ContentStore) PostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var p models.BlogPost
	err := s.db.WithContext(ctx).
		Where("slug = ? AND is_published = ?", slug, true).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (s *ContentStore) Posts(ctx context.Context) ([]models.BlogPost, error) {
	var out []models.BlogPost
	err := s.db.WithContext(ctx).Order("created_at desc").Find(&out).Error
	return out, err
}

func (s *ContentStore) GetPost(ctx context.Context, id uint) (*models.BlogPost, error) {
	var p models.BlogPost
	err := s.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (s *ContentStore) SavePost(ctx context.Context, p *models.BlogPost) error {
	return s.db.WithContext(ctx).Save(p).Error
}

func (s *ContentStore) DeletePost(ctx context.Context, id uint) error {
	return deleteByID[models.BlogPost](ctx, s.db, id)
}

// ---------- knowledge base ----------

func (s *ContentStore) PublishedArticles(ctx context.Context) ([]models.KBArticle, error) {
	var out []models.KBArticle
	err := s.db.WithContext(ctx).Where("is_published = ?", true).
		Order("category asc, title asc").Find(&out).Error
	return out, err
}

// ArticleBySlug fetches a published article and bumps its view counter.
func (s *ContentStore) ArticleBySlug(ctx context.Context, slug string) (*models.KBArticle, error) {
	var a models.KBArticle
	err := s.db.WithContext(ctx).
		Where("slug = ? AND is_published = ?", slug, true).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	_ = s.db.WithContext(ctx).Model(&models.KBArticle{}).
		Where("id = ?", a.ID).
		Update("views", gorm.Expr("views + 1")).Error
	a.Views++
	return &a, nil
}

func (s *ContentStore) Articles(ctx context.Context) ([]models.KBArticle, error) {
	var out []models.KBArticle
	err := s.db.WithContext(ctx).Order("created_at desc").Find(&out).Error
	return out, err
}

func (s *ContentStore) GetArticle(ctx context.Context, id uint) (*models.KBArticle, error) {
	var a models.KBArticle
	err := s.db.WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &a, err
}

func (s *ContentStore) SaveArticle(ctx context.Context, a *models.KBArticle) error {
	return s.db.WithContext(ctx).Save(a).Error
}

func (s *ContentStore) DeleteArticle(ctx context.Context, id uint) error {
	return deleteByID[models.KBArticle](ctx, s.db, id)
}

// ---------- leads ----------

func (s *ContentStore) CreateLead(ctx context.Context, l *models.Lead) error {
	return s.db.WithContext(ctx).Create(l).Error
}

func (s *ContentStore) Leads(ctx context.Context) ([]models.Lead, error) {
	var out []models.Lead
	err := s.db.WithContext(ctx).Order("created_at desc").Find(&out).Error
	return out, err
}

func (s *ContentStore) GetLead(ctx context.Context, id uint) (*models.Lead, error) {
	var l models.Lead
	err := s.db.WithContext(ctx).First(&l, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &l, err
}

func (s *ContentStore) SaveLead(ctx context.Context, l *models.Lead) error {
	return s.db.WithContext(ctx).Save(l).Error
}

func (s *ContentStore) DeleteLead(ctx context.Context, id uint) error {
	return deleteByID[models.Lead](ctx, s.db, id)
}

// ---------- testimonials ----------

func (s *ContentStore) PublishedTestimonials(ctx context.Context) ([]models.Testimonial, error) {
	var out []models.Testimonial
	err := s.db.WithContext(ctx).Where("is_published = ?", true).
		Order("created_at desc").Find(&out).Error
	return out, err
}

func (s *ContentStore) Testimonials(ctx context.Context) ([]models.Testimonial, error) {
	var out []models.Testimonial
	err := s.db.WithContext(ctx).Order("created_at desc").Find(&out).Error
	return out, err
}

func (s *ContentStore) GetTestimonial(ctx context.Context, id uint) (*models.Testimonial, error) {
	var t models.Testimonial
	err := s.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &t, err
}

func (s *ContentStore) SaveTestimonial(ctx context.Context, t *models.Testimonial) error {
	return s.db.WithContext(ctx).Save(t).Error
}

func (s *ContentStore) DeleteTestimonial(ctx context.Context, id uint) error {
	return deleteByID[models.Testimonial](ctx, s.db, id)
}

// ---------- site settings ----------

func (s *ContentStore) Settings(ctx context.Context) ([]models.SiteConfig, error) {
	var out []models.SiteConfig
	err := s.db.WithContext(ctx).Order("id asc").Find(&out).Error
	return out, err
}

func (s *ContentStore) GetSetting(ctx context.Context, key string) (string, error) {
	var c models.SiteConfig
	err := s.db.WithContext(ctx).Where(&models.SiteConfig{Key: key}).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	return c.Value, err
}

func (s *ContentStore) SetSetting(ctx context.Context, key, value string) error {
	var c models.SiteConfig
	err := s.db.WithContext(ctx).Where(&models.SiteConfig{Key: key}).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.WithContext(ctx).Create(&models.SiteConfig{Key: key, Value: value}).Error
	}
	if err != nil {
		return err
	}
	c.Value = value
	return s.db.WithContext(ctx).Save(&c).Error
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, id uint) error {
	var zero T
	res := db.WithContext(ctx).Delete(&zero, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
